package tui

import (
	"testing"

	"namegen/internal/models"
	"namegen/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorSavesRecord(t *testing.T) {
	deps := newDeps(t, testRecords())
	m := NewEditorModel(deps)
	require.NoError(t, m.Load(1, false))

	assert.Equal(t, "fra", m.inputs[fieldType].Value())
	assert.Equal(t, "2", m.inputs[fieldStateID].Value())
	assert.Equal(t, "20 - Paris", m.provinces.Value())

	m.inputs[fieldStateID].SetValue("42")
	m.inputs[fieldStateName].SetValue("Paris Region")
	m.provinces.SetValue("20 - Paris\n21 - Versailles\n")

	_, cmd := m.Update(key("ctrl+s"))
	require.NotNil(t, cmd)
	assert.Equal(t, RecordSavedMsg{Index: 1}, cmd())

	r, err := deps.Store.Record(1)
	require.NoError(t, err)
	assert.Equal(t, models.Record{
		Type:      "fra",
		StateID:   42,
		StateName: "Paris Region",
		Provinces: []models.Province{{ID: 20, Name: "Paris"}, {ID: 21, Name: "Versailles"}},
	}, r)

	// the file is sorted by (type, stateId), so fra comes first
	onDisk, err := store.ReadFile(deps.Config.DataPath())
	require.NoError(t, err)
	require.Len(t, onDisk, 3)
	assert.Equal(t, "fra", onDisk[0].Type)
	assert.Equal(t, int64(42), onDisk[0].StateID)
	assert.Equal(t, "Paris Region", onDisk[0].StateName)
}

func TestEditorRejectsBadStateID(t *testing.T) {
	for _, value := range []string{"-1", "abc", "99999999999999999999"} {
		t.Run(value, func(t *testing.T) {
			deps := newDeps(t, testRecords())
			m := NewEditorModel(deps)
			require.NoError(t, m.Load(0, false))

			m.inputs[fieldStateID].SetValue(value)
			_, cmd := m.Update(key("ctrl+s"))
			assert.Nil(t, cmd)
			assert.Error(t, m.err)

			r, err := deps.Store.Record(0)
			require.NoError(t, err)
			assert.Equal(t, int64(1), r.StateID)
		})
	}
}

func TestEditorRejectsBadProvinceLine(t *testing.T) {
	deps := newDeps(t, testRecords())
	m := NewEditorModel(deps)
	require.NoError(t, m.Load(0, false))

	m.provinces.SetValue("10 - Berlin\nberlin - 10")
	_, cmd := m.Update(key("ctrl+s"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "line 2")
}

func TestEditorEmptyStateIDIsZero(t *testing.T) {
	deps := newDeps(t, testRecords())
	m := NewEditorModel(deps)
	require.NoError(t, m.Load(0, false))

	m.inputs[fieldStateID].SetValue("")
	r, err := m.Record()
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.StateID)
}

func TestEditorCancelNewRecordRemovesIt(t *testing.T) {
	deps := newDeps(t, testRecords())
	i, err := deps.Store.Add(models.Record{})
	require.NoError(t, err)

	m := NewEditorModel(deps)
	require.NoError(t, m.Load(i, true))

	_, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, RecordSavedMsg{Index: -1}, cmd())
	assert.Equal(t, 3, deps.Store.Len())
}

func TestEditorCancelExistingKeepsIt(t *testing.T) {
	deps := newDeps(t, testRecords())
	m := NewEditorModel(deps)
	require.NoError(t, m.Load(2, false))

	m.inputs[fieldStateName].SetValue("changed")
	_, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, RecordSavedMsg{Index: 2}, cmd())

	r, err := deps.Store.Record(2)
	require.NoError(t, err)
	assert.Equal(t, "Brandenburg again", r.StateName)
}

func TestEditorTabCyclesFocus(t *testing.T) {
	m := NewEditorModel(newDeps(t, testRecords()))
	require.NoError(t, m.Load(0, false))

	for want := fieldStateID; want < fieldCount; want++ {
		m.Update(key("tab"))
		assert.Equal(t, want, m.focus)
	}
	m.Update(key("tab"))
	assert.Equal(t, fieldType, m.focus)
	assert.True(t, m.inputs[fieldType].Focused())
}

func TestEditorLoadOutOfRange(t *testing.T) {
	m := NewEditorModel(newDeps(t, nil))
	assert.ErrorIs(t, m.Load(0, false), store.ErrIndexOutOfRange)
}
