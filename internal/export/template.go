package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplate is wrapped by every template parse and render failure.
var ErrTemplate = errors.New("template error")

// Placeholder names available to the code template.
const (
	FieldStateID       = "state_id"
	FieldStateFlag     = "state_flag"
	FieldClearFlags    = "clear_flags"
	FieldStateName     = "state_name"
	FieldProvinceNames = "province_names"
)

var knownFields = map[string]bool{
	FieldStateID:       true,
	FieldStateFlag:     true,
	FieldClearFlags:    true,
	FieldStateName:     true,
	FieldProvinceNames: true,
}

type segment struct {
	text  string
	field string
}

// Template is a parsed code template. "{name}" is replaced by the named
// value; "{{" and "}}" produce literal braces.
type Template struct {
	segments []segment
}

// ParseTemplate validates text and splits it into literal and placeholder
// segments.
func ParseTemplate(text string) (*Template, error) {
	var (
		segments []segment
		literal  strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			literal.WriteByte('{')
			i++
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			literal.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated placeholder at offset %d", ErrTemplate, i)
			}
			name := text[i+1 : i+1+end]
			if !isIdentifier(name) {
				return nil, fmt.Errorf("%w: malformed placeholder %q at offset %d", ErrTemplate, "{"+name+"}", i)
			}
			if !knownFields[name] {
				return nil, fmt.Errorf("%w: unknown placeholder %q at offset %d", ErrTemplate, name, i)
			}
			flush()
			segments = append(segments, segment{field: name})
			i += end + 1
		case c == '}':
			return nil, fmt.Errorf("%w: unmatched '}' at offset %d", ErrTemplate, i)
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	return &Template{segments: segments}, nil
}

// Render substitutes values into the template. Every placeholder used by the
// template must be present in values.
func (t *Template) Render(values map[string]string) (string, error) {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.field == "" {
			sb.WriteString(seg.text)
			continue
		}
		v, ok := values[seg.field]
		if !ok {
			return "", fmt.Errorf("%w: no value for placeholder %q", ErrTemplate, seg.field)
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

// Fields returns the placeholder names the template uses, in order of first
// use.
func (t *Template) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, seg := range t.segments {
		if seg.field != "" && !seen[seg.field] {
			seen[seg.field] = true
			out = append(out, seg.field)
		}
	}
	return out
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
