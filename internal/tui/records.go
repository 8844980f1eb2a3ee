package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"namegen/internal/filter"
	"namegen/internal/models"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// filterTickMsg fires once the search box has been idle for the debounce
// interval. Ticks with a stale seq are dropped.
type filterTickMsg struct {
	seq int
}

// RecordsModel is the browse page: a table of records with a search box and
// a duplicate mode cycled with tab.
type RecordsModel struct {
	deps   *Deps
	width  int
	height int
	table  table.Model

	records []models.Record
	visible []int

	filterInput   textinput.Model
	filterMode    filter.Mode
	filterFocused bool
	filterSeq     int
	applied       string

	confirmDelete bool
	status        string
}

func NewRecordsModel(deps *Deps) *RecordsModel {
	t := table.New(
		table.WithColumns(recordColumns(80)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	fi := textinput.New()
	fi.Placeholder = "type:, stateid:, statename:, provinces: or free text..."
	fi.CharLimit = 120
	fi.Width = 50
	fi.ShowSuggestions = true

	return &RecordsModel{
		deps:        deps,
		table:       t,
		filterInput: fi,
		filterMode:  filter.ModeNone,
	}
}

func recordColumns(width int) []table.Column {
	nameWidth := 24
	provWidth := width - 4 - 6 - 14 - 10 - nameWidth - 12
	if provWidth < 20 {
		provWidth = 20
	}
	return []table.Column{
		{Title: "#", Width: 6},
		{Title: "Type", Width: 14},
		{Title: "State ID", Width: 10},
		{Title: "State Name", Width: nameWidth},
		{Title: "Provinces", Width: provWidth},
	}
}

func (m *RecordsModel) Init() tea.Cmd {
	return nil
}

func (m *RecordsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(recordColumns(width))
	if height > 14 {
		m.table.SetHeight(height - 12)
	}
}

// Capturing reports whether key presses go to the search box or a pending
// confirmation.
func (m *RecordsModel) Capturing() bool {
	return m.filterFocused || m.confirmDelete
}

// Refresh reloads the snapshot from the store and reapplies the filter.
func (m *RecordsModel) Refresh() {
	m.records = m.deps.Store.Records()
	m.filterInput.SetSuggestions(filter.Suggestions(m.records))
	m.applyFilter()
}

// Select moves the cursor to the row showing store index i, if visible.
func (m *RecordsModel) Select(i int) {
	for row, idx := range m.visible {
		if idx == i {
			m.table.SetCursor(row)
			return
		}
	}
}

// Visible returns the store indices currently shown, in display order.
func (m *RecordsModel) Visible() []int {
	return append([]int(nil), m.visible...)
}

func (m *RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case filterTickMsg:
		m.applyTick(msg)
		return m, nil

	case tea.KeyMsg:
		if m.confirmDelete {
			return m, m.handleConfirm(msg)
		}

		if m.filterFocused {
			switch msg.String() {
			case "esc", "enter":
				m.filterFocused = false
				m.filterInput.Blur()
				m.applyFilter()
				return m, nil
			}
			before := m.filterInput.Value()
			m.filterInput, cmd = m.filterInput.Update(msg)
			cmds = append(cmds, cmd)
			if m.filterInput.Value() != before {
				cmds = append(cmds, m.scheduleFilter())
			}
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case "/":
			m.filterFocused = true
			m.status = ""
			return m, m.filterInput.Focus()
		case "tab":
			m.filterMode = m.filterMode.Next()
			m.applyFilter()
			return m, nil
		case "a", "n":
			return m, m.addRecord()
		case "enter", "e":
			if i, ok := m.selected(); ok {
				return m, editRecord(i, false)
			}
			return m, nil
		case "d", "delete":
			if _, ok := m.selected(); ok {
				m.confirmDelete = true
			}
			return m, nil
		case "ctrl+l":
			m.ClearFilter()
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *RecordsModel) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	m.confirmDelete = false
	switch msg.String() {
	case "y", "Y":
		i, ok := m.selected()
		if !ok {
			return nil
		}
		if err := m.deps.Store.Remove(i); err != nil {
			return Fatal(fmt.Errorf("failed to delete record: %w", err))
		}
		m.deps.Logger.Debug("record deleted", zap.Int("index", i))
		m.status = "Record deleted"
		m.Refresh()
	default:
		m.status = "Delete cancelled"
	}
	return nil
}

// addRecord appends an empty record and opens it in the editor. The search
// box is cleared first so the new row is visible.
func (m *RecordsModel) addRecord() tea.Cmd {
	m.ClearFilter()
	i, err := m.deps.Store.Add(models.Record{})
	if err != nil {
		return Fatal(fmt.Errorf("failed to add record: %w", err))
	}
	m.Refresh()
	m.Select(i)
	return editRecord(i, true)
}

func editRecord(i int, isNew bool) tea.Cmd {
	return func() tea.Msg {
		return EditRecordMsg{Index: i, New: isNew}
	}
}

func (m *RecordsModel) selected() (int, bool) {
	row := m.table.Cursor()
	if row < 0 || row >= len(m.visible) {
		return 0, false
	}
	return m.visible[row], true
}

func (m *RecordsModel) scheduleFilter() tea.Cmd {
	m.filterSeq++
	seq := m.filterSeq
	delay := m.deps.Config.FilterDebounce
	if delay <= 0 {
		return func() tea.Msg { return filterTickMsg{seq: seq} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return filterTickMsg{seq: seq}
	})
}

func (m *RecordsModel) applyTick(msg filterTickMsg) {
	if msg.seq != m.filterSeq {
		return
	}
	m.applyFilter()
}

func (m *RecordsModel) applyFilter() {
	m.applied = m.filterInput.Value()
	m.visible = filter.Apply(m.records, m.applied, m.filterMode)
	m.updateTableRows()
}

func (m *RecordsModel) updateTableRows() {
	rows := make([]table.Row, 0, len(m.visible))
	for n, i := range m.visible {
		r := m.records[i]
		rows = append(rows, table.Row{
			strconv.Itoa(n + 1),
			r.Type,
			strconv.FormatInt(r.StateID, 10),
			r.StateName,
			provinceSummary(r.Provinces),
		})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 && m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

func provinceSummary(provinces []models.Province) string {
	parts := make([]string, 0, len(provinces))
	for _, p := range provinces {
		parts = append(parts, fmt.Sprintf("%d %s", p.ID, p.Name))
	}
	return strings.Join(parts, ", ")
}

// ClearFilter empties the search box and shows every record.
func (m *RecordsModel) ClearFilter() {
	m.filterSeq++
	m.filterInput.SetValue("")
	m.filterMode = filter.ModeNone
	m.applyFilter()
}

func (m *RecordsModel) View() string {
	adaptiveTitleStyle, _, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	var b strings.Builder
	b.WriteString(adaptiveTitleStyle.Render("📜 States"))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Search: "))
	if m.filterFocused {
		b.WriteString(m.filterInput.View())
	} else if m.filterInput.Value() != "" {
		b.WriteString(inputStyle.Render(m.filterInput.Value()))
	} else {
		b.WriteString(helpStyle.UnsetMargins().Render("(none)"))
	}
	b.WriteString("   ")
	b.WriteString(labelStyle.Render("Duplicates: "))
	b.WriteString(modeStyle(m.filterMode).Render(m.filterMode.Label()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d records\n\n", len(m.visible), len(m.records)))

	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")

	switch {
	case m.confirmDelete:
		b.WriteString(warningStyle.Render("Delete the selected record? (y/n)"))
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
	}

	help := "/ search • tab duplicates • a add • enter edit • d delete • ctrl+l clear • esc back"
	if m.filterFocused {
		help = "type to filter • tab accept suggestion • enter/esc done"
	}
	b.WriteString(adaptiveHelpStyle.Render(help))

	return lipgloss.NewStyle().Margin(0, 2).Render(b.String())
}

func modeStyle(mode filter.Mode) lipgloss.Style {
	if mode == filter.ModeNone {
		return inputStyle
	}
	return warningStyle
}
