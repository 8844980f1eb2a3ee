package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"namegen/internal/csv"
	"namegen/internal/models"
	"namegen/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type ImportModel struct {
	deps         *Deps
	state        ImportState
	csvFileInput textinput.Model
	replace      bool
	result       ImportResult
	files        []string
	selectedFile int
	width        int
	height       int
}

type ImportState int

const (
	ImportInputState ImportState = iota
	ImportFileSelectState
	ImportResultState
)

type ImportResult struct {
	File          string
	TotalRecords  int
	Replaced      bool
	RecordsBefore int
	RecordsAfter  int
	Error         error
}

type ImportCompleteMsg struct {
	Result ImportResult
}

func NewImportModel(deps *Deps) *ImportModel {
	csvInput := textinput.New()
	csvInput.Placeholder = "path/to/states.csv"
	csvInput.Focus()

	return &ImportModel{
		deps:         deps,
		state:        ImportInputState,
		csvFileInput: csvInput,
	}
}

func (m *ImportModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ImportModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Capturing reports whether esc belongs to the file browser.
func (m *ImportModel) Capturing() bool {
	return m.state == ImportFileSelectState
}

func (m *ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case ImportInputState:
			return m.updateInputState(msg)
		case ImportFileSelectState:
			return m.updateFileSelectState(msg)
		case ImportResultState:
			if msg.String() == "enter" || msg.String() == " " {
				m.reset()
				return m, nil
			}
		}

	case ImportCompleteMsg:
		m.result = msg.Result
		m.state = ImportResultState
		if msg.Result.Error != nil {
			var fatal *storeError
			if errors.As(msg.Result.Error, &fatal) {
				return m, Fatal(fatal.err)
			}
		}
		return m, nil
	}

	return m, nil
}

func (m *ImportModel) updateInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.replace = !m.replace
		return m, nil
	case "ctrl+f":
		return m.browseFiles()
	case "enter":
		if strings.TrimSpace(m.csvFileInput.Value()) != "" {
			return m, m.performImport()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.csvFileInput, cmd = m.csvFileInput.Update(msg)
	return m, cmd
}

func (m *ImportModel) updateFileSelectState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedFile > 0 {
			m.selectedFile--
		}
	case "down", "j":
		if m.selectedFile < len(m.files)-1 {
			m.selectedFile++
		}
	case "enter":
		if len(m.files) > 0 {
			m.csvFileInput.SetValue(m.files[m.selectedFile])
			m.state = ImportInputState
		}
	case "esc":
		m.state = ImportInputState
	}
	return m, nil
}

func (m *ImportModel) browseFiles() (tea.Model, tea.Cmd) {
	files, err := listFiles(m.deps.Config.BaseDir, "*.csv")
	if err != nil {
		return m, ShowError(err)
	}
	m.files = files
	m.selectedFile = 0
	m.state = ImportFileSelectState
	return m, nil
}

// listFiles returns files in dir matching any pattern, relative to dir.
func listFiles(dir string, patterns ...string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			rel, err := filepath.Rel(dir, match)
			if err != nil {
				rel = match
			}
			files = append(files, rel)
		}
	}
	sort.Strings(files)
	return files, nil
}

// storeError marks a failure to persist, which ends the program rather
// than being shown on the result screen.
type storeError struct {
	err error
}

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func (m *ImportModel) performImport() tea.Cmd {
	csvFile := m.deps.Config.Path(strings.TrimSpace(m.csvFileInput.Value()))
	replace := m.replace
	s := m.deps.Store
	logger := m.deps.Logger

	return func() tea.Msg {
		result := ImportResult{File: csvFile, Replaced: replace, RecordsBefore: s.Len()}

		records, err := csv.NewParser(csvFile).ParseRecords()
		if err != nil {
			result.Error = fmt.Errorf("failed to parse CSV: %w", err)
			return ImportCompleteMsg{Result: result}
		}
		result.TotalRecords = len(records)

		if err := importInto(s, records, replace); err != nil {
			result.Error = &storeError{err: fmt.Errorf("failed to save imported records: %w", err)}
			return ImportCompleteMsg{Result: result}
		}
		result.RecordsAfter = s.Len()

		logger.Info("imported CSV",
			zap.String("file", csvFile),
			zap.Int("records", len(records)),
			zap.Bool("replace", replace))
		return ImportCompleteMsg{Result: result}
	}
}

func importInto(s *store.Store, records []models.Record, replace bool) error {
	if replace {
		return s.Replace(records)
	}
	return s.Append(records...)
}

func (m *ImportModel) reset() {
	m.state = ImportInputState
	m.result = ImportResult{}
	m.csvFileInput.SetValue("")
	m.csvFileInput.Focus()
}

func (m *ImportModel) View() string {
	switch m.state {
	case ImportInputState:
		return m.renderInputForm()
	case ImportFileSelectState:
		return renderFileSelector("📁 Select CSV File", "No CSV files found in "+m.deps.Config.BaseDir, m.files, m.selectedFile)
	case ImportResultState:
		return m.renderResult()
	}
	return ""
}

func (m *ImportModel) renderInputForm() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("📥 Import States from CSV")

	mode := "append to existing states"
	if m.replace {
		mode = warningStyle.Render("replace all existing states")
	}

	form := adaptiveFormStyle.Render(
		labelStyle.Render("CSV File:") + "\n" + m.csvFileInput.View() + "\n\n" +
			labelStyle.Render("Mode:") + "\n" + mode,
	)

	help := adaptiveHelpStyle.Render("Ctrl+F: Browse files • Ctrl+R: Toggle replace • Enter: Import • Esc: Back to menu")

	content := lipgloss.JoinVertical(lipgloss.Left, title, form, help)

	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Top,
			content,
		)
	}

	return content
}

func renderFileSelector(heading, empty string, files []string, selected int) string {
	title := titleStyle.Render(heading)

	if len(files) == 0 {
		content := warningStyle.Render(empty)
		help := helpStyle.Render("Esc: Back to form")
		return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
	}

	var fileList string
	for i, file := range files {
		cursor := " "
		style := menuItemStyle
		if i == selected {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		fileList += fmt.Sprintf("%s %s\n", cursor, style.Render(file))
	}

	help := helpStyle.Render("↑/↓: Navigate • Enter: Select • Esc: Cancel")

	return lipgloss.JoinVertical(lipgloss.Left, title, fileList, help)
}

func (m *ImportModel) renderResult() string {
	title := titleStyle.Render("📥 Import Complete")

	if m.result.Error != nil {
		status := errorStyle.Render(fmt.Sprintf("❌ Import failed: %v", m.result.Error))
		help := helpStyle.Render("Enter: Try another file • Esc: Back to menu")
		return lipgloss.JoinVertical(lipgloss.Left, title, status, help)
	}

	status := successStyle.Render("✅ Import completed successfully!")

	mode := "appended"
	if m.result.Replaced {
		mode = "replaced"
	}
	stats := fmt.Sprintf(
		"📊 Import Statistics:\n"+
			"   File: %s\n"+
			"   Records read: %d (%s)\n"+
			"   States before: %d\n"+
			"   States after: %d",
		m.result.File,
		m.result.TotalRecords,
		mode,
		m.result.RecordsBefore,
		m.result.RecordsAfter,
	)

	help := helpStyle.Render("Enter: Import another file • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, status, stats, help)
}
