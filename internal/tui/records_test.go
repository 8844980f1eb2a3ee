package tui

import (
	"testing"

	"namegen/internal/filter"
	"namegen/internal/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeInto(m *RecordsModel, text string) {
	for _, r := range text {
		m.Update(key(string(r)))
	}
}

func TestRecordsShowsAllRowsNumbered(t *testing.T) {
	m := NewRecordsModel(newDeps(t, testRecords()))
	m.Refresh()

	assert.Equal(t, []int{0, 1, 2}, m.Visible())
	rows := m.table.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[0][0])
	assert.Equal(t, "3", rows[2][0])
	assert.Equal(t, "10 Berlin", rows[0][4])
}

func TestRecordsFilterIsDebounced(t *testing.T) {
	m := NewRecordsModel(newDeps(t, testRecords()))
	m.Refresh()

	m.Update(key("/"))
	require.True(t, m.Capturing())
	typeInto(m, "type:fra")

	// nothing is applied until the tick for the latest keystroke arrives
	assert.Equal(t, []int{0, 1, 2}, m.Visible())

	m.Update(filterTickMsg{seq: m.filterSeq - 1})
	assert.Equal(t, []int{0, 1, 2}, m.Visible())

	m.Update(filterTickMsg{seq: m.filterSeq})
	assert.Equal(t, []int{1}, m.Visible())
	assert.Equal(t, "1", m.table.Rows()[0][0])
}

func TestRecordsEnterAppliesImmediately(t *testing.T) {
	m := NewRecordsModel(newDeps(t, testRecords()))
	m.Refresh()

	m.Update(key("/"))
	typeInto(m, "potsdam")
	m.Update(key("enter"))

	assert.False(t, m.Capturing())
	assert.Equal(t, []int{2}, m.Visible())

	// a tick scheduled before enter changes nothing
	m.Update(filterTickMsg{seq: m.filterSeq})
	assert.Equal(t, []int{2}, m.Visible())
}

func TestRecordsTabCyclesDuplicateMode(t *testing.T) {
	records := append(testRecords(), models.Record{
		Type: "fra", StateID: 9, StateName: "Twice",
		Provinces: []models.Province{{ID: 5, Name: "A"}, {ID: 5, Name: "B"}},
	})
	m := NewRecordsModel(newDeps(t, records))
	m.Refresh()

	m.Update(key("tab"))
	assert.Equal(t, filter.ModeDuplicateState, m.filterMode)
	assert.Equal(t, []int{0, 2}, m.Visible())

	m.Update(key("tab"))
	assert.Equal(t, filter.ModeDuplicateProvince, m.filterMode)
	assert.Equal(t, []int{3}, m.Visible())

	m.Update(key("tab"))
	assert.Equal(t, filter.ModeNone, m.filterMode)
	assert.Len(t, m.Visible(), 4)
}

func TestRecordsDuplicateModeCombinesWithSearch(t *testing.T) {
	m := NewRecordsModel(newDeps(t, testRecords()))
	m.Refresh()

	m.Update(key("tab"))
	m.Update(key("/"))
	typeInto(m, "again")
	m.Update(key("enter"))
	assert.Equal(t, []int{2}, m.Visible())
}

func TestRecordsAddClearsFilterAndOpensEditor(t *testing.T) {
	deps := newDeps(t, testRecords())
	m := NewRecordsModel(deps)
	m.Refresh()

	m.Update(key("/"))
	typeInto(m, "fra")
	m.Update(key("enter"))
	m.Update(key("tab"))
	require.Empty(t, m.Visible())

	_, cmd := m.Update(key("a"))
	require.NotNil(t, cmd)
	assert.Equal(t, EditRecordMsg{Index: 3, New: true}, cmd())

	assert.Equal(t, "", m.filterInput.Value())
	assert.Equal(t, filter.ModeNone, m.filterMode)
	assert.Equal(t, []int{0, 1, 2, 3}, m.Visible())
	assert.Equal(t, 4, deps.Store.Len())
}

func TestRecordsDeleteNeedsConfirmation(t *testing.T) {
	deps := newDeps(t, testRecords())
	m := NewRecordsModel(deps)
	m.Refresh()
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m.Update(key("d"))
	assert.True(t, m.Capturing())
	m.Update(key("n"))
	assert.Equal(t, 3, deps.Store.Len())

	m.Update(key("d"))
	m.Update(key("y"))
	assert.Equal(t, 2, deps.Store.Len())
	assert.Equal(t, []string{"ger"}, deps.Store.Types())
}

func TestRecordsEditSelected(t *testing.T) {
	m := NewRecordsModel(newDeps(t, testRecords()))
	m.Refresh()

	m.Update(key("/"))
	typeInto(m, "provinces:paris")
	m.Update(key("enter"))

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, EditRecordMsg{Index: 1}, cmd())
}

func TestRecordsSuggestionsFromTypes(t *testing.T) {
	m := NewRecordsModel(newDeps(t, testRecords()))
	m.Refresh()

	assert.Contains(t, m.filterInput.AvailableSuggestions(), "type:fra")
	assert.Contains(t, m.filterInput.AvailableSuggestions(), "statename:")
}

func TestDebounceTickReachesRecordsFromOtherScreens(t *testing.T) {
	deps := newDeps(t, testRecords())
	root := NewModel(deps)

	next, _ := root.Update(ScreenChangeMsg{Screen: RecordsScreen})
	for _, r := range "/fra" {
		next, _ = next.Update(key(string(r)))
	}
	next, _ = next.Update(ScreenChangeMsg{Screen: MenuScreen})

	records := next.(Model).recordsModel
	next.Update(filterTickMsg{seq: records.filterSeq})
	assert.Equal(t, []int{1}, records.Visible())
}
