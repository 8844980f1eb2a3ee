package tui

import (
	"fmt"
	"strings"

	"namegen/internal/backup"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type BackupModel struct {
	deps            *Deps
	state           BackupState
	outputDirInput  textinput.Model
	focusedInput    int
	formatSelection int
	formats         []string
	result          BackupResult
	width           int
	height          int
}

type BackupState int

const (
	BackupInputState BackupState = iota
	BackupResultState
)

type BackupResult struct {
	RecordCount int
	FilePath    string
	Error       error
}

type BackupCompleteMsg struct {
	Result BackupResult
}

func NewBackupModel(deps *Deps) *BackupModel {
	outputDirInput := textinput.New()
	outputDirInput.Placeholder = "backups"
	if deps.Config != nil {
		outputDirInput.SetValue(deps.Config.BackupDir)
	}
	outputDirInput.Focus()

	return &BackupModel{
		deps:           deps,
		state:          BackupInputState,
		outputDirInput: outputDirInput,
		formats:        []string{backup.FormatJSON, backup.FormatCSV},
	}
}

func (m *BackupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *BackupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case BackupInputState:
			return m.updateInputState(msg)
		case BackupResultState:
			if msg.String() == "enter" || msg.String() == " " {
				m.reset()
				return m, nil
			}
		}

	case BackupCompleteMsg:
		m.result = msg.Result
		m.state = BackupResultState
		return m, nil
	}

	return m, nil
}

func (m *BackupModel) updateInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "shift+tab", "up":
		m.focusedInput = (m.focusedInput + 1) % 2
		m.updateInputFocus()
		return m, nil
	case "left", "right", "h", "l", " ":
		if m.focusedInput == 1 {
			m.formatSelection = (m.formatSelection + 1) % len(m.formats)
			return m, nil
		}
	case "enter":
		if strings.TrimSpace(m.outputDirInput.Value()) != "" {
			return m, m.performBackup()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusedInput == 0 {
		m.outputDirInput, cmd = m.outputDirInput.Update(msg)
	}
	return m, cmd
}

func (m *BackupModel) updateInputFocus() {
	if m.focusedInput == 0 {
		m.outputDirInput.Focus()
	} else {
		m.outputDirInput.Blur()
	}
}

func (m *BackupModel) performBackup() tea.Cmd {
	outputDir := m.deps.Config.Path(strings.TrimSpace(m.outputDirInput.Value()))
	format := m.formats[m.formatSelection]
	svc := m.deps.Backup
	count := m.deps.Store.Len()
	logger := m.deps.Logger

	return func() tea.Msg {
		path, err := svc.BackupStore(outputDir, format)
		if err != nil {
			return BackupCompleteMsg{Result: BackupResult{Error: err}}
		}
		logger.Info("backup written", zap.String("file", path), zap.Int("records", count))
		return BackupCompleteMsg{Result: BackupResult{RecordCount: count, FilePath: path}}
	}
}

func (m *BackupModel) reset() {
	m.state = BackupInputState
	m.result = BackupResult{}
	m.focusedInput = 0
	m.updateInputFocus()
}

func (m *BackupModel) View() string {
	switch m.state {
	case BackupInputState:
		return m.renderInputForm()
	case BackupResultState:
		return m.renderResult()
	}
	return ""
}

func (m *BackupModel) renderInputForm() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("💾 Backup States")

	var formats string
	for i, f := range m.formats {
		label := strings.ToUpper(f)
		if i == m.formatSelection {
			if m.focusedInput == 1 {
				label = selectedMenuItemStyle.Render(label)
			} else {
				label = inputStyle.Render("[" + label + "]")
			}
		} else {
			label = menuItemStyle.Render(label)
		}
		formats += label + " "
	}

	form := adaptiveFormStyle.Render(
		labelStyle.Render("Output Directory:") + "\n" + m.outputDirInput.View() + "\n\n" +
			labelStyle.Render("Format:") + "\n" + formats + "\n\n" +
			fmt.Sprintf("%d states will be written", m.deps.Store.Len()),
	)

	help := adaptiveHelpStyle.Render("Tab: Switch field • ←/→: Change format • Enter: Backup • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, form, help)
}

func (m *BackupModel) renderResult() string {
	title := titleStyle.Render("💾 Backup Complete")

	var status string
	if m.result.Error != nil {
		status = errorStyle.Render(fmt.Sprintf("❌ Backup failed: %v", m.result.Error))
	} else {
		status = successStyle.Render("✅ Backup completed successfully!") + "\n\n" +
			fmt.Sprintf("📊 Backup Statistics:\n   States: %d\n   File: %s",
				m.result.RecordCount, m.result.FilePath)
	}

	help := helpStyle.Render("Enter: Create another backup • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, status, help)
}
