package tui

import (
	"fmt"
	"strings"

	"namegen/internal/export"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type ExportState int

const (
	ExportStateReady ExportState = iota
	ExportStateComplete
)

type ExportModel struct {
	deps   *Deps
	state  ExportState
	result export.Result
	width  int
	height int
}

type ExportCompleteMsg struct {
	Result export.Result
}

func NewExportModel(deps *Deps) *ExportModel {
	return &ExportModel{deps: deps}
}

func (m *ExportModel) Init() tea.Cmd {
	return nil
}

func (m *ExportModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ExportModel) Reset() {
	m.state = ExportStateReady
	m.result = export.Result{}
}

func (m *ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			if m.state == ExportStateComplete {
				return m, ChangeScreen(MenuScreen)
			}
			return m, m.performExport()
		}

	case ExportCompleteMsg:
		m.state = ExportStateComplete
		m.result = msg.Result
	}
	return m, nil
}

// performExport captures the exporter and records before the command runs.
func (m *ExportModel) performExport() tea.Cmd {
	exporter := m.deps.Exporter
	records := m.deps.Store.Records()
	logger := m.deps.Logger
	return func() tea.Msg {
		result, err := exporter.Export(records)
		if err != nil {
			return FatalMsg{Err: fmt.Errorf("export failed: %w", err)}
		}
		logger.Info("export complete",
			zap.String("dir", result.OutputDir),
			zap.Int("files", len(result.Files)))
		return ExportCompleteMsg{Result: result}
	}
}

func (m *ExportModel) View() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("🧩 Export Scripted Effects")

	var body, help string
	switch m.state {
	case ExportStateReady:
		var b strings.Builder
		b.WriteString(labelStyle.Render("Template: "))
		b.WriteString(m.deps.Config.TemplatePath())
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Output:   "))
		b.WriteString(m.deps.Exporter.OutputDir())
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Records:  "))
		b.WriteString(fmt.Sprintf("%d", m.deps.Store.Len()))
		b.WriteString("\n\n")
		b.WriteString(warningStyle.Render("⚠️  The output directory is deleted and recreated."))
		body = adaptiveFormStyle.Render(b.String())
		help = "Enter to export • Esc to go back"

	case ExportStateComplete:
		var b strings.Builder
		if len(m.result.Files) == 0 {
			b.WriteString(warningStyle.Render("Nothing to export: there are no records."))
		} else {
			b.WriteString(successStyle.Render(fmt.Sprintf("✅ Wrote %d files to %s", len(m.result.Files), m.result.OutputDir)))
			b.WriteString("\n\n")
			for _, f := range m.result.Files {
				b.WriteString(fmt.Sprintf("  %-24s %d states\n", f.Name, f.Records))
			}
		}
		body = adaptiveFormStyle.Render(b.String())
		help = "Enter to return to menu"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		body,
		adaptiveHelpStyle.Render(help),
	)
}
