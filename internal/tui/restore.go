package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"namegen/internal/backup"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const formatAuto = "auto"

type RestoreModel struct {
	deps            *Deps
	state           RestoreState
	backupFileInput textinput.Model
	formatSelection int
	formats         []string
	merge           bool
	result          RestoreResult
	files           []string
	selectedFile    int
	width           int
	height          int
}

type RestoreState int

const (
	RestoreInputState RestoreState = iota
	RestoreFileSelectState
	RestoreFormatSelectState
	ConfirmationState
	RestoreResultState
)

type RestoreResult struct {
	RecordCount int
	Format      string
	Merged      bool
	Error       error
}

type RestoreCompleteMsg struct {
	Result RestoreResult
}

func NewRestoreModel(deps *Deps) *RestoreModel {
	backupFileInput := textinput.New()
	backupFileInput.Placeholder = "data.json.bak"
	backupFileInput.Focus()

	return &RestoreModel{
		deps:            deps,
		state:           RestoreInputState,
		backupFileInput: backupFileInput,
		formats:         []string{formatAuto, backup.FormatJSON, backup.FormatCSV},
	}
}

func (m *RestoreModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RestoreModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Capturing reports whether esc steps back within the restore flow.
func (m *RestoreModel) Capturing() bool {
	switch m.state {
	case RestoreFileSelectState, RestoreFormatSelectState, ConfirmationState:
		return true
	}
	return false
}

func (m *RestoreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case RestoreInputState:
			return m.updateInputState(msg)
		case RestoreFileSelectState:
			return m.updateFileSelectState(msg)
		case RestoreFormatSelectState:
			return m.updateFormatSelectState(msg)
		case ConfirmationState:
			return m.updateConfirmationState(msg)
		case RestoreResultState:
			if msg.String() == "enter" || msg.String() == " " {
				m.reset()
				return m, nil
			}
		}

	case RestoreCompleteMsg:
		m.result = msg.Result
		m.state = RestoreResultState
		var fatal *storeError
		if errors.As(msg.Result.Error, &fatal) {
			return m, Fatal(fatal.err)
		}
		return m, nil
	}

	return m, nil
}

func (m *RestoreModel) updateInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+f":
		return m.browseFiles()
	case "enter":
		if strings.TrimSpace(m.backupFileInput.Value()) != "" {
			m.state = RestoreFormatSelectState
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.backupFileInput, cmd = m.backupFileInput.Update(msg)
	return m, cmd
}

func (m *RestoreModel) updateFileSelectState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
			m.backupFileInput.SetValue(m.files[m.selectedFile])
			m.state = RestoreInputState
		}
	case "esc":
		m.state = RestoreInputState
	}
	return m, nil
}

func (m *RestoreModel) updateFormatSelectState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.formatSelection > 0 {
			m.formatSelection--
		}
	case "down", "j":
		if m.formatSelection < len(m.formats)-1 {
			m.formatSelection++
		}
	case "enter":
		m.state = ConfirmationState
	case "esc":
		m.state = RestoreInputState
	}
	return m, nil
}

func (m *RestoreModel) updateConfirmationState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "m":
		m.merge = !m.merge
	case "y", "enter":
		return m, m.performRestore()
	case "n", "esc":
		m.state = RestoreInputState
	}
	return m, nil
}

// browseFiles lists candidate snapshots in the base and backup directories.
func (m *RestoreModel) browseFiles() (tea.Model, tea.Cmd) {
	cfg := m.deps.Config
	patterns := []string{"*.json", "*.bak", "*.csv"}

	files, err := listFiles(cfg.BaseDir, patterns...)
	if err != nil {
		return m, ShowError(err)
	}
	backups, err := listFiles(cfg.BackupPath(), patterns...)
	if err != nil {
		return m, ShowError(err)
	}
	for _, f := range backups {
		files = append(files, filepath.Join(cfg.BackupDir, f))
	}

	m.files = files
	m.selectedFile = 0
	m.state = RestoreFileSelectState
	return m, nil
}

func (m *RestoreModel) performRestore() tea.Cmd {
	inputFile := m.deps.Config.Path(strings.TrimSpace(m.backupFileInput.Value()))
	format := m.formats[m.formatSelection]
	merge := m.merge
	s := m.deps.Store
	logger := m.deps.Logger

	return func() tea.Msg {
		result := RestoreResult{Merged: merge}

		if format == formatAuto {
			detected, err := backup.DetectFormat(inputFile)
			if err != nil {
				result.Error = err
				return RestoreCompleteMsg{Result: result}
			}
			format = detected
		}
		result.Format = format

		records, err := backup.ReadBackupFile(inputFile, format)
		if err != nil {
			result.Error = err
			return RestoreCompleteMsg{Result: result}
		}

		if err := importInto(s, records, !merge); err != nil {
			result.Error = &storeError{err: fmt.Errorf("restore failed: %w", err)}
			return RestoreCompleteMsg{Result: result}
		}
		result.RecordCount = len(records)

		logger.Info("restored backup",
			zap.String("file", inputFile),
			zap.String("format", format),
			zap.Int("records", len(records)),
			zap.Bool("merge", merge))
		return RestoreCompleteMsg{Result: result}
	}
}

func (m *RestoreModel) reset() {
	m.state = RestoreInputState
	m.result = RestoreResult{}
	m.merge = false
	m.backupFileInput.SetValue("")
	m.backupFileInput.Focus()
}

func (m *RestoreModel) View() string {
	switch m.state {
	case RestoreInputState:
		return m.renderInputForm()
	case RestoreFileSelectState:
		return renderFileSelector("📁 Select Backup File", "No backup files found", m.files, m.selectedFile)
	case RestoreFormatSelectState:
		return m.renderFormatSelector()
	case ConfirmationState:
		return m.renderConfirmation()
	case RestoreResultState:
		return m.renderResult()
	}
	return ""
}

func (m *RestoreModel) renderInputForm() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("🔄 Restore States")
	form := adaptiveFormStyle.Render(
		labelStyle.Render("Backup File:") + "\n" + m.backupFileInput.View(),
	)
	help := adaptiveHelpStyle.Render("Ctrl+F: Browse files • Enter: Continue • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, form, help)
}

func (m *RestoreModel) renderFormatSelector() string {
	title := titleStyle.Render("📋 Select Backup Format")

	var formatList string
	for i, format := range m.formats {
		cursor := " "
		style := menuItemStyle
		if i == m.formatSelection {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		formatList += fmt.Sprintf("%s %s\n", cursor, style.Render(strings.ToUpper(format)))
	}

	help := helpStyle.Render("↑/↓: Navigate • Enter: Select • Esc: Back")

	return lipgloss.JoinVertical(lipgloss.Left, title, formatList, help)
}

func (m *RestoreModel) renderConfirmation() string {
	title := titleStyle.Render("⚠️  Confirm Restore")

	action := errorStyle.Render("REPLACE all current states")
	if m.merge {
		action = "append the backup to the current states"
	}

	details := fmt.Sprintf(
		"📁 File: %s\n📋 Format: %s\n📊 Current states: %d\n\nThis will %s.",
		strings.TrimSpace(m.backupFileInput.Value()),
		strings.ToUpper(m.formats[m.formatSelection]),
		m.deps.Store.Len(),
		action,
	)

	warning := warningStyle.Render("The current data file is rotated to " + m.deps.Config.DataFile + ".bak first.")

	help := helpStyle.Render("y/Enter: Confirm • m: Toggle merge • n/Esc: Cancel")

	return lipgloss.JoinVertical(lipgloss.Left, title, details, warning, help)
}

func (m *RestoreModel) renderResult() string {
	title := titleStyle.Render("🔄 Restore Complete")

	var status string
	if m.result.Error != nil {
		status = errorStyle.Render(fmt.Sprintf("❌ Restore failed: %v", m.result.Error))
	} else {
		mode := "replaced"
		if m.result.Merged {
			mode = "merged"
		}
		status = successStyle.Render("✅ Restore completed successfully!") + "\n\n" +
			fmt.Sprintf("📊 Restore Statistics:\n   States restored: %d\n   Format: %s\n   Mode: %s",
				m.result.RecordCount, strings.ToUpper(m.result.Format), mode)
	}

	help := helpStyle.Render("Enter: Restore another file • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, status, help)
}
