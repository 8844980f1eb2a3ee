package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"namegen/internal/models"

	"github.com/jszwec/csvutil"
)

type Parser struct {
	filename string
}

func NewParser(filename string) *Parser {
	return &Parser{filename: filename}
}

// ParseRecords reads a type,state_id,state_name,provinces file.
func (p *Parser) ParseRecords() ([]models.Record, error) {
	file, err := os.Open(p.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadRecords(file)
}

func ReadRecords(r io.Reader) ([]models.Record, error) {
	var rows []models.RecordRow
	decoder, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if err == io.EOF {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		record, err := row.Record()
		if err != nil {
			// header is line 1
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// WriteRecords writes records with a header row.
func WriteRecords(w io.Writer, records []models.Record) error {
	rows := make([]models.RecordRow, len(records))
	for i, r := range records {
		rows[i] = r.Row()
	}

	cw := csv.NewWriter(w)
	encoder := csvutil.NewEncoder(cw)
	if len(rows) == 0 {
		if err := encoder.EncodeHeader(models.RecordRow{}); err != nil {
			return fmt.Errorf("failed to encode CSV header: %w", err)
		}
	} else if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
