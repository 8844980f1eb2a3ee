package export

import (
	"os"
	"path/filepath"
	"testing"

	"namegen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lineTemplate = "state {state_id} {state_flag} {state_name}{province_names}"

func records() []models.Record {
	return []models.Record{
		{Type: "core", StateID: 1, StateName: "One"},
		{Type: "alt", StateID: 2, StateName: "Two"},
		{Type: "core", StateID: 3, StateName: "Three", Provinces: []models.Province{{ID: 7, Name: "Seven"}}},
	}
}

func newExporter(t *testing.T, tpl string) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "code.txt"), []byte(tpl), 0644))

	out := filepath.Join(dir, "common", "scripted_effects")
	e, err := New(filepath.Join(dir, "code.txt"), out)
	require.NoError(t, err)
	return e, out
}

func TestExportGroupsByType(t *testing.T) {
	e, out := newExporter(t, lineTemplate)

	res, err := e.Export(records())
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "core_name.txt", res.Files[0].Name)
	assert.Equal(t, 2, res.Files[0].Records)
	assert.Equal(t, "alt_name.txt", res.Files[1].Name)

	core, err := os.ReadFile(filepath.Join(out, "core_name.txt"))
	require.NoError(t, err)
	assert.Equal(t, "apply_core_name = {\n"+
		"state 1 state_name_core One\n"+
		"state 3 state_name_core Three\n"+
		"        set_province_name = { id = 7 name = \"Seven\" }\n"+
		"}\n", string(core))

	alt, err := os.ReadFile(filepath.Join(out, "alt_name.txt"))
	require.NoError(t, err)
	assert.Equal(t, "apply_alt_name = {\nstate 2 state_name_alt Two\n}\n", string(alt))
}

func TestExportKeepsDuplicateStatesInInputOrder(t *testing.T) {
	e, out := newExporter(t, "{state_name}")

	_, err := e.Export([]models.Record{
		{Type: "core", StateID: 4, StateName: "Later"},
		{Type: "core", StateID: 4, StateName: "Earlier"},
	})
	require.NoError(t, err)

	core, err := os.ReadFile(filepath.Join(out, "core_name.txt"))
	require.NoError(t, err)
	assert.Equal(t, "apply_core_name = {\nLater\nEarlier\n}\n", string(core))
}

func TestExportClearFlagsBlock(t *testing.T) {
	e, _ := newExporter(t, "{{{clear_flags}\n}}")

	files, err := e.Render(records())
	require.NoError(t, err)
	block := "{\n" +
		"        clr_state_flag = state_name_core\n" +
		"        clr_state_flag = state_name_alt\n" +
		"}"
	assert.Equal(t, "apply_alt_name = {\n"+block+"\n}\n", files[1].Content)
}

func TestExportIsIdempotentAndClearsStaleFiles(t *testing.T) {
	e, out := newExporter(t, lineTemplate)

	_, err := e.Export(records())
	require.NoError(t, err)
	first := readDir(t, out)

	require.NoError(t, os.WriteFile(filepath.Join(out, "stale_name.txt"), []byte("old"), 0644))

	_, err = e.Export(records())
	require.NoError(t, err)
	assert.Equal(t, first, readDir(t, out))
}

func TestExportEmptyIsNoop(t *testing.T) {
	e, out := newExporter(t, lineTemplate)
	require.NoError(t, os.MkdirAll(out, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "keep.txt"), []byte("x"), 0644))

	res, err := e.Export(nil)
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.FileExists(t, filepath.Join(out, "keep.txt"))
}

func TestExportRejectsPathLikeTypes(t *testing.T) {
	e, _ := newExporter(t, lineTemplate)
	_, err := e.Export([]models.Record{{Type: "../evil"}})
	assert.Error(t, err)
}

func TestNewMissingTemplate(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "code.txt"), t.TempDir())
	assert.Error(t, err)
}

func TestNewMalformedTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.txt")
	require.NoError(t, os.WriteFile(path, []byte("limit = { owner = ROOT }"), 0644))

	_, err := New(path, dir)
	assert.ErrorIs(t, err, ErrTemplate)
}

func readDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)
		out[entry.Name()] = string(data)
	}
	return out
}
