package analysis

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileRows = []string{
	"# CE-QUAL-W2 profile dump",
	"JDAY SEG LAYER TEMP DO CHLA",
	"2    1   2     18.5 6.0 3.1",
	"1    1   2     22   8.0 3.0",
	"",
	"1    1   1     10   4.0 2.0",
	"2    1   1     NA   5.5 -",
}

func writeProfile(t *testing.T, rows []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spr.opt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644))
	return path
}

func TestLoadParsesWhitespaceTable(t *testing.T) {
	tbl, err := Load(writeProfile(t, profileRows))
	require.NoError(t, err)

	assert.Equal(t, "spr.opt", tbl.Name)
	assert.Equal(t, []string{"JDAY", "SEG", "LAYER", "TEMP", "DO", "CHLA"}, tbl.Header)
	assert.True(t, tbl.HasChla)
	require.Equal(t, 4, tbl.Len())

	first := tbl.Rows[0]
	assert.Equal(t, 2, first.JDay)
	assert.Equal(t, 1, first.Segment)
	assert.Equal(t, 2, first.Layer)
	assert.InDelta(t, 18.5, first.Temp, 1e-12)
	assert.InDelta(t, 6.0, first.DO, 1e-12)
	assert.InDelta(t, 3.1, first.Chla, 1e-12)

	last := tbl.Rows[3]
	assert.True(t, math.IsNaN(last.Temp), "NA temperature should load as NaN")
	assert.True(t, math.IsNaN(last.Chla), "'-' chlorophyll should load as NaN")
}

func TestLoadWithoutChla(t *testing.T) {
	tbl, err := Parse(strings.NewReader("JDAY SEG LAYER TEMP DO\n1 1 1 10 4\n"))
	require.NoError(t, err)
	assert.False(t, tbl.HasChla)
	assert.True(t, math.IsNaN(tbl.Rows[0].Chla))
	assert.False(t, tbl.HasColumn(ColChla))
}

func TestLoadAcceptsIntegralFloatKeysAndExtraColumns(t *testing.T) {
	tbl, err := Parse(strings.NewReader("DEPTH JDAY SEG LAYER TEMP DO\n0.5 60.0 3 2.0 11 7\n"))
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, 60, tbl.Rows[0].JDay)
	assert.Equal(t, 3, tbl.Rows[0].Segment)
	assert.Equal(t, 2, tbl.Rows[0].Layer)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		sentinel error
		column   string
		line     int
	}{
		{"non-numeric temp", "JDAY SEG LAYER TEMP DO\n1 1 1 warm 4\n", ErrMalformedInput, ColTemp, 2},
		{"fractional day", "JDAY SEG LAYER TEMP DO\n1.5 1 1 10 4\n", ErrMalformedInput, ColJDay, 2},
		{"key out of range", "JDAY SEG LAYER TEMP DO\n1e20 1 1 10 4\n", ErrMalformedInput, ColJDay, 2},
		{"negative key out of range", "JDAY SEG LAYER TEMP DO\n1 1 1 10 4\n-1e20 1 1 10 5\n", ErrMalformedInput, ColJDay, 3},
		{"missing key", "JDAY SEG LAYER TEMP DO\n1 NA 1 10 4\n", ErrMalformedInput, ColSegment, 2},
		{"short row", "JDAY SEG LAYER TEMP DO\n1 1 1 10\n", ErrMalformedInput, "", 2},
		{"missing column", "JDAY SEG TEMP DO\n1 1 10 4\n", ErrMissingColumn, "", 1},
		{"duplicate column", "JDAY SEG LAYER TEMP DO DO\n1 1 1 10 4 4\n", ErrMalformedInput, "", 1},
		{"lowercase header", "jday seg layer temp do\n1 1 1 10 4\n", ErrMissingColumn, "", 1},
		{"empty", "\n# nothing\n", ErrMalformedInput, "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tc.column, le.Column)
			assert.Equal(t, tc.line, le.Line)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.opt")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
}

func TestLoadErrorCarriesPath(t *testing.T) {
	path := writeProfile(t, []string{"JDAY SEG LAYER TEMP DO", "1 1 1 10 x"})
	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, "load "+path+":2 (DO): malformed input: \"x\" is not numeric", err.Error())
}

func TestColumnsAppendDerivedInOrder(t *testing.T) {
	tbl, err := Load(writeProfile(t, profileRows))
	require.NoError(t, err)
	res := Process(tbl, DefaultOptions())
	assert.Equal(t, []string{
		"JDAY", "SEG", "LAYER", "TEMP", "DO", "CHLA",
		"TSI", "LAYER_TYPE", "HYPOLIMNION_AVG", "THERMOCLINE_AVG", "EPILIMNION_AVG",
	}, res.Table.Columns())
}
