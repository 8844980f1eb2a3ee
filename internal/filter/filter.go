// Package filter evaluates the record search box: "field:term" scoped
// queries or bare terms matched against every field, optionally restricted
// to a duplicate set.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"namegen/internal/duplicates"
	"namegen/internal/models"
)

// Field names a searchable record field. FieldAll searches all of them.
type Field string

const (
	FieldAll       Field = ""
	FieldType      Field = "type"
	FieldStateID   Field = "stateid"
	FieldStateName Field = "statename"
	FieldProvinces Field = "provinces"
)

// Fields lists the scoped fields in display order.
var Fields = []Field{FieldType, FieldStateID, FieldStateName, FieldProvinces}

// Query is a parsed search box value.
type Query struct {
	Field Field
	Term  string
	// Any is set for blank input, which matches every record.
	Any bool
}

// Parse splits text on ':'. Exactly two segments select a field; anything
// else searches all fields for the whole text. A blank or unknown field name
// searches all fields for the term.
func Parse(text string) Query {
	if strings.TrimSpace(text) == "" {
		return Query{Any: true}
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return Query{Field: FieldAll, Term: text}
	}

	q := Query{Field: FieldAll, Term: parts[1]}
	name := Field(strings.ToLower(parts[0]))
	for _, f := range Fields {
		if f == name {
			q.Field = f
			break
		}
	}
	return q
}

// Match reports whether r satisfies the query. Matching is a
// case-insensitive substring test.
func (q Query) Match(r models.Record) bool {
	if q.Any {
		return true
	}

	switch q.Field {
	case FieldType:
		return containsFold(r.Type, q.Term)
	case FieldStateID:
		return containsFold(strconv.FormatInt(r.StateID, 10), q.Term)
	case FieldStateName:
		return containsFold(r.StateName, q.Term)
	case FieldProvinces:
		return containsFold(r.ProvincesText(), q.Term)
	default:
		return containsFold(r.Type, q.Term) ||
			containsFold(strconv.FormatInt(r.StateID, 10), q.Term) ||
			containsFold(r.StateName, q.Term) ||
			containsFold(r.ProvincesText(), q.Term)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Mode restricts results to a duplicate set.
type Mode int

const (
	ModeNone Mode = iota
	ModeDuplicateState
	ModeDuplicateProvince
)

func (m Mode) String() string {
	switch m {
	case ModeDuplicateState:
		return "state"
	case ModeDuplicateProvince:
		return "province"
	default:
		return "none"
	}
}

// Label is the human-readable name shown in the UI.
func (m Mode) Label() string {
	switch m {
	case ModeDuplicateState:
		return "Duplicate state ids"
	case ModeDuplicateProvince:
		return "Duplicate province ids"
	default:
		return "All records"
	}
}

// Next cycles none -> state -> province -> none.
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

// ParseMode accepts the String form of a mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "all":
		return ModeNone, nil
	case "state", "stateid":
		return ModeDuplicateState, nil
	case "province", "provinces":
		return ModeDuplicateProvince, nil
	default:
		return ModeNone, fmt.Errorf("unknown duplicate mode %q (use none, state or province)", s)
	}
}

// Restriction computes the duplicate set for mode, or nil for ModeNone.
func Restriction(records []models.Record, mode Mode) duplicates.Set {
	switch mode {
	case ModeDuplicateState:
		return duplicates.ByState(records)
	case ModeDuplicateProvince:
		return duplicates.ByProvince(records)
	default:
		return nil
	}
}

// Apply returns the positions of records visible under text and mode, in
// record order.
func Apply(records []models.Record, text string, mode Mode) []int {
	q := Parse(text)
	restrict := Restriction(records, mode)

	visible := make([]int, 0, len(records))
	for i, r := range records {
		if restrict != nil && !restrict.Contains(i) {
			continue
		}
		if q.Match(r) {
			visible = append(visible, i)
		}
	}
	return visible
}

// Suggestions returns auto-complete candidates for the search box: each
// field prefix, then "type:<t>" for every known type.
func Suggestions(records []models.Record) []string {
	out := make([]string, 0, len(Fields)+len(records))
	for _, f := range Fields {
		out = append(out, string(f)+":")
	}

	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Type == "" {
			continue
		}
		if _, ok := seen[r.Type]; ok {
			continue
		}
		seen[r.Type] = struct{}{}
		out = append(out, string(FieldType)+":"+r.Type)
	}
	return out
}
