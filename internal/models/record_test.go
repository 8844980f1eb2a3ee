package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneDoesNotShareProvinces(t *testing.T) {
	r := Record{Type: "ger", Provinces: []Province{{ID: 1, Name: "A"}}}
	c := r.Clone()
	c.Provinces[0].Name = "B"
	assert.Equal(t, "A", r.Provinces[0].Name)

	empty := Record{}.Clone()
	assert.NotNil(t, empty.Provinces)
	assert.Empty(t, empty.Provinces)
}

func TestNormalizedLowercasesType(t *testing.T) {
	r := Record{Type: "GER", StateName: "Bavaria"}
	n := r.Normalized()
	assert.Equal(t, "ger", n.Type)
	assert.Equal(t, "Bavaria", n.StateName)
	assert.Equal(t, "GER", r.Type)
}

func TestProvincesText(t *testing.T) {
	r := Record{Provinces: []Province{{ID: 10, Name: "Berlin"}, {ID: 11, Name: "Potsdam"}}}
	assert.Equal(t, "10 - Berlin\n11 - Potsdam", r.ProvincesText())
	assert.Equal(t, "", Record{}.ProvincesText())
}

func TestParseProvincesText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Province
	}{
		{"empty", "", []Province{}},
		{"blank lines", "\n  \n", []Province{}},
		{"single", "10 - Berlin", []Province{{ID: 10, Name: "Berlin"}}},
		{"crlf", "10 - Berlin\r\n11 - Potsdam\r\n", []Province{{ID: 10, Name: "Berlin"}, {ID: 11, Name: "Potsdam"}}},
		{"no name", "12", []Province{{ID: 12}}},
		{"trailing dash", "12 -", []Province{{ID: 12}}},
		{"name with separator", "13 - Baden - Baden", []Province{{ID: 13, Name: "Baden - Baden"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProvincesText(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProvincesTextRejectsBadID(t *testing.T) {
	_, err := ParseProvincesText("10 - Berlin\nabc - Nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRowRoundTrip(t *testing.T) {
	r := Record{Type: "fra", StateID: 3, StateName: "Paris", Provinces: []Province{{ID: 20, Name: "Paris"}}}
	row := r.Row()
	assert.Equal(t, "20 - Paris", row.Provinces)

	back, err := row.Record()
	require.NoError(t, err)
	assert.Equal(t, r, back)
}
