package csv

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"namegen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.csv")
	body := "type,state_id,state_name,provinces\n" +
		"core,4,Westmark,\"12 - Harbor\n13 - Mill\"\n" +
		"alt,9,Eastreach,\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	records, err := NewParser(path).ParseRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.Record{
		Type:      "core",
		StateID:   4,
		StateName: "Westmark",
		Provinces: []models.Province{{ID: 12, Name: "Harbor"}, {ID: 13, Name: "Mill"}},
	}, records[0])
	assert.Equal(t, "alt", records[1].Type)
	assert.Empty(t, records[1].Provinces)
}

func TestParseRecordsMissingProvincesColumn(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("type,state_id,state_name\ncore,1,One\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "One", records[0].StateName)
}

func TestParseRecordsBadProvince(t *testing.T) {
	_, err := ReadRecords(strings.NewReader("type,state_id,state_name,provinces\ncore,1,One,x - y\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParseRecordsBadStateID(t *testing.T) {
	_, err := ReadRecords(strings.NewReader("type,state_id,state_name\ncore,abc,One\n"))
	assert.Error(t, err)
}

func TestReadRecordsEmptyInput(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteThenRead(t *testing.T) {
	in := []models.Record{
		{Type: "core", StateID: 4, StateName: "West, mark", Provinces: []models.Province{{ID: 12, Name: "Harbor"}}},
		{Type: "alt", StateID: 9, StateName: "Eastreach", Provinces: []models.Province{}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), "type,state_id,state_name,provinces\n"))

	out, err := ReadRecords(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteRecordsEmptyWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, nil))
	assert.Equal(t, "type,state_id,state_name,provinces\n", buf.String())
}
