// Package export renders records into per-type scripted effect files
// through the user's code template.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"namegen/internal/models"

	"go.uber.org/zap"
)

const indent = "        "

// File is one rendered output file.
type File struct {
	Type    string
	Name    string
	Content string
	Records int
}

// Result describes a completed export.
type Result struct {
	OutputDir string
	Files     []File
}

// Exporter renders records with a template loaded once at construction.
type Exporter struct {
	template  *Template
	outputDir string
	logger    *zap.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the exporter's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New reads and parses the template at templatePath.
func New(templatePath, outputDir string, opts ...Option) (*Exporter, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	tpl, err := ParseTemplate(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", templatePath, err)
	}
	return NewWithTemplate(tpl, outputDir, opts...), nil
}

// NewWithTemplate builds an exporter around an already parsed template.
func NewWithTemplate(tpl *Template, outputDir string, opts ...Option) *Exporter {
	e := &Exporter{
		template:  tpl,
		outputDir: outputDir,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OutputDir returns the directory Export recreates.
func (e *Exporter) OutputDir() string {
	return e.outputDir
}

// Export renders records and replaces the output directory with one
// "{type}_name.txt" file per type. Empty input is a no-op.
func (e *Exporter) Export(records []models.Record) (Result, error) {
	if len(records) == 0 {
		e.logger.Info("nothing to export")
		return Result{}, nil
	}

	files, err := e.Render(records)
	if err != nil {
		return Result{}, err
	}

	if err := os.RemoveAll(e.outputDir); err != nil {
		return Result{}, fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, f := range files {
		path := filepath.Join(e.outputDir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return Result{}, fmt.Errorf("failed to write %s: %w", path, err)
		}
		e.logger.Debug("wrote scripted effect",
			zap.String("file", path),
			zap.String("type", f.Type),
			zap.Int("records", f.Records))
	}

	e.logger.Info("export complete", zap.String("dir", e.outputDir), zap.Int("files", len(files)))
	return Result{OutputDir: e.outputDir, Files: files}, nil
}

// Render produces the output files without touching the disk. Types appear
// in first-seen order and records keep their input order within a type.
func (e *Exporter) Render(records []models.Record) ([]File, error) {
	types, groups := groupByType(records)
	clearFlags := clearFlagsBlock(types)

	files := make([]File, 0, len(types))
	for _, typ := range types {
		name := typ + "_name.txt"
		if filepath.Base(name) != name {
			return nil, fmt.Errorf("type %q cannot be used as a file name", typ)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "apply_%s_name = {\n", typ)
		for _, r := range groups[typ] {
			code, err := e.template.Render(map[string]string{
				FieldStateID:       strconv.FormatInt(r.StateID, 10),
				FieldStateFlag:     "state_name_" + r.Type,
				FieldClearFlags:    clearFlags,
				FieldStateName:     r.StateName,
				FieldProvinceNames: provinceBlock(r.Provinces),
			})
			if err != nil {
				return nil, fmt.Errorf("state %d (%s): %w", r.StateID, typ, err)
			}
			sb.WriteString(code)
			sb.WriteString("\n")
		}
		sb.WriteString("}\n")

		files = append(files, File{
			Type:    typ,
			Name:    name,
			Content: sb.String(),
			Records: len(groups[typ]),
		})
	}
	return files, nil
}

func groupByType(records []models.Record) ([]string, map[string][]models.Record) {
	var types []string
	groups := make(map[string][]models.Record)
	for _, r := range records {
		if _, ok := groups[r.Type]; !ok {
			types = append(types, r.Type)
		}
		groups[r.Type] = append(groups[r.Type], r)
	}
	return types, groups
}

// clearFlagsBlock starts with a newline so the template can place it right
// after an opening brace.
func clearFlagsBlock(types []string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, typ := range types {
		fmt.Fprintf(&sb, "%sclr_state_flag = state_name_%s\n", indent, typ)
	}
	return strings.TrimRight(sb.String(), "\r\n")
}

func provinceBlock(provinces []models.Province) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, p := range provinces {
		fmt.Fprintf(&sb, "%sset_province_name = { id = %d name = \"%s\" }\n", indent, p.ID, p.Name)
	}
	return strings.TrimRight(sb.String(), "\r\n")
}
