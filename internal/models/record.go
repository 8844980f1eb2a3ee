package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Province overrides the display name of a single province inside a state.
type Province struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Record is one named state: the type groups records for export and
// duplicate checks, the state id and type together form the logical key.
type Record struct {
	Type      string     `json:"type"`
	StateID   int64      `json:"stateId"`
	StateName string     `json:"stateName"`
	Provinces []Province `json:"provinces"`
}

// Clone returns a copy that shares no province storage with r.
func (r Record) Clone() Record {
	c := r
	c.Provinces = make([]Province, len(r.Provinces))
	copy(c.Provinces, r.Provinces)
	return c
}

// Normalized returns a clone with the type lowercased and a non-nil
// province list, the shape written to disk.
func (r Record) Normalized() Record {
	c := r.Clone()
	c.Type = strings.ToLower(c.Type)
	return c
}

// ProvincesText renders the provinces as "id - name" lines.
func (r Record) ProvincesText() string {
	if len(r.Provinces) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Provinces {
		fmt.Fprintf(&sb, "%d - %s\n", p.ID, p.Name)
	}
	return strings.Trim(sb.String(), "\r\n")
}

// ParseProvincesText is the inverse of ProvincesText. Blank lines are
// skipped; a line without a numeric id is an error.
func ParseProvincesText(text string) ([]Province, error) {
	provinces := []Province{}
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		idPart, name, _ := strings.Cut(line, " - ")
		idPart = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(idPart), "-"))
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid province id %q", i+1, idPart)
		}
		provinces = append(provinces, Province{ID: id, Name: name})
	}
	return provinces, nil
}

// RecordRow is the flat CSV shape of a Record; provinces use the
// ProvincesText format inside a single quoted cell.
type RecordRow struct {
	Type      string `csv:"type"`
	StateID   int64  `csv:"state_id"`
	StateName string `csv:"state_name"`
	Provinces string `csv:"provinces,omitempty"`
}

// Row flattens r for CSV output.
func (r Record) Row() RecordRow {
	return RecordRow{
		Type:      r.Type,
		StateID:   r.StateID,
		StateName: r.StateName,
		Provinces: r.ProvincesText(),
	}
}

// Record expands a CSV row back into a Record.
func (row RecordRow) Record() (Record, error) {
	provinces, err := ParseProvincesText(row.Provinces)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Type:      row.Type,
		StateID:   row.StateID,
		StateName: row.StateName,
		Provinces: provinces,
	}, nil
}
