package naics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_Lookup(t *testing.T) {
	tbl := Build([][]string{
		{"541511", "Custom Computer Programming Services"},
		{"722511", "Full-Service Restaurants"},
	})

	title, ok := tbl.Lookup("541511")
	assert.True(t, ok)
	assert.Equal(t, "Custom Computer Programming Services", title)
	assert.Equal(t, 2, tbl.Len())
}

func TestBuild_Miss(t *testing.T) {
	tbl := Build([][]string{{"541511", "Custom Computer Programming Services"}})

	title, ok := tbl.Lookup("999999")
	assert.False(t, ok)
	assert.Empty(t, title)

	_, ok = tbl.Lookup("")
	assert.False(t, ok)
}

func TestBuild_LastDuplicateWins(t *testing.T) {
	tbl := Build([][]string{
		{"11", "first"},
		{"11", "second"},
	})

	title, ok := tbl.Lookup("11")
	assert.True(t, ok)
	assert.Equal(t, "second", title)
	assert.Equal(t, 1, tbl.Len())
}

func TestBuild_SkipsShortRows(t *testing.T) {
	tbl := Build([][]string{
		{"11"},
		{},
		{"21", "Mining", "extra"},
	})

	assert.Equal(t, 1, tbl.Len())
	title, ok := tbl.Lookup("21")
	assert.True(t, ok)
	assert.Equal(t, "Mining", title)
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	_, ok := tbl.Lookup("11")
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
}

func TestLabel(t *testing.T) {
	tbl := Build([][]string{
		{"541511", "Custom Computer Programming Services"},
		{"000000", ""},
	})

	assert.Equal(t, "Custom Computer Programming Services", tbl.Label("541511"))
	assert.Equal(t, UnknownLabel, tbl.Label("999999"))
	assert.Equal(t, UnknownLabel, tbl.Label("000000"))

	var empty *Table
	assert.Equal(t, "tbd", empty.Label("541511"))
}
