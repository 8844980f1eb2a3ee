package backup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"namegen/internal/csv"
	"namegen/internal/models"
	"namegen/internal/store"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// BackupStore writes a timestamped snapshot of the store to outputDir.
func (s *Service) BackupStore(outputDir, format string) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := s.now().Format("20060102_150405")
	filename := fmt.Sprintf("backup_records_%s.%s", timestamp, format)
	path := filepath.Join(outputDir, filename)

	data, err := encode(s.store.Records(), format)
	if err != nil {
		return "", fmt.Errorf("backup failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	return path, nil
}

// RestoreStore loads inputFile into the store, replacing its contents
// unless merge is set, in which case the records are appended.
func (s *Service) RestoreStore(inputFile, format string, merge bool) (int, error) {
	records, err := ReadBackupFile(inputFile, format)
	if err != nil {
		return 0, err
	}

	if merge {
		err = s.store.Append(records...)
	} else {
		err = s.store.Replace(records)
	}
	if err != nil {
		return 0, fmt.Errorf("restore failed: %w", err)
	}
	return len(records), nil
}

// ReadBackupFile decodes a JSON or CSV snapshot.
func ReadBackupFile(inputFile, format string) ([]models.Record, error) {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}

	switch format {
	case FormatJSON:
		return store.Decode(data)
	case FormatCSV:
		return csv.ReadRecords(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("invalid format: %s. Use 'json' or 'csv'", format)
	}
}

func (s *Service) ValidateBackupFile(filename, expectedFormat string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open backup file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("cannot get file info: %w", err)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("backup file is empty")
	}

	detected, err := DetectFormat(filename)
	if err != nil {
		return err
	}
	if detected != expectedFormat {
		return fmt.Errorf("expected %s file but got %s", strings.ToUpper(expectedFormat), filepath.Ext(filename))
	}

	return nil
}

// DetectFormat maps a file extension to a format. The store's own ".bak"
// rotation file is JSON.
func DetectFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", store.BackupSuffix:
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("cannot auto-detect format from extension '%s'. Please specify --format", filepath.Ext(filename))
	}
}

func ValidateFormat(format string) error {
	if format != FormatJSON && format != FormatCSV {
		return fmt.Errorf("invalid format: %s. Use 'json' or 'csv'", format)
	}
	return nil
}

func encode(records []models.Record, format string) ([]byte, error) {
	if format == FormatCSV {
		var buf bytes.Buffer
		if err := csv.WriteRecords(&buf, records); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return store.Encode(records)
}
