package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuEntry struct {
	label  string
	detail string
	screen Screen
	quit   bool
}

var menuEntries = []menuEntry{
	{label: "Browse & edit states", detail: "filter, find duplicates, add and delete records", screen: RecordsScreen},
	{label: "Export scripted effects", detail: "write {type}_name.txt files from code.txt", screen: ExportScreen},
	{label: "Import states from CSV", detail: "append or replace records from a CSV file", screen: ImportScreen},
	{label: "Backup states", detail: "save a timestamped JSON or CSV snapshot", screen: BackupScreen},
	{label: "Restore states", detail: "load records from a snapshot or data.json.bak", screen: RestoreScreen},
	{label: "Exit", quit: true},
}

// MenuModel is the landing screen. Entries can be picked with the cursor or
// by their number.
type MenuModel struct {
	entries []menuEntry
	cursor  int
	width   int
	height  int
}

func NewMenuModel() *MenuModel {
	return &MenuModel{entries: menuEntries}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k":
		m.cursor = (m.cursor + len(m.entries) - 1) % len(m.entries)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(m.entries)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.entries) - 1
	case "enter", " ":
		return m, m.open(m.cursor)
	default:
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(m.entries) {
			m.cursor = n - 1
			return m, m.open(m.cursor)
		}
	}
	return m, nil
}

func (m *MenuModel) open(i int) tea.Cmd {
	e := m.entries[i]
	if e.quit {
		return tea.Quit
	}
	return ChangeScreen(e.screen)
}

func (m *MenuModel) View() string {
	titleStyle, _, helpStyle := GetAdaptiveStyles(m.width, m.height)

	var b strings.Builder
	for i, e := range m.entries {
		line := strconv.Itoa(i+1) + ". " + e.label
		if i == m.cursor {
			b.WriteString("> " + selectedMenuItemStyle.Render(line))
		} else {
			b.WriteString("  " + menuItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	detail := m.entries[m.cursor].detail
	if detail == "" {
		detail = "leave namegen"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("State Name Generator"),
		b.String(),
		labelStyle.Render(detail),
		helpStyle.Render("↑/↓ or j/k move • 1-"+strconv.Itoa(len(m.entries))+" or enter open • q quit"),
	)

	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
