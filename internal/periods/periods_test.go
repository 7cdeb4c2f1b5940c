package periods

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headline-sentiment/internal/clean"
	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseConfig(t *testing.T) {
	ranges, err := ParseConfig([]byte(`
crisis_periods:
  - start: 2008-09-01
    end: 2009-06-30
    name: GFC
  - start: "2020-01-01"
    end: "2020-03-31"
`))
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	assert.Equal(t, "GFC", ranges[0].Name)
	assert.True(t, day(2008, 9, 1).Equal(ranges[0].Start))
	assert.True(t, day(2009, 6, 30).Equal(ranges[0].End))
	assert.Equal(t, DefaultName, ranges[1].Name)
}

func TestParseConfigErrors(t *testing.T) {
	tests := map[string]string{
		"bad start":    "crisis_periods:\n  - start: soon\n    end: 2020-01-01\n",
		"bad end":      "crisis_periods:\n  - start: 2020-01-01\n    end: later\n",
		"end before":   "crisis_periods:\n  - start: 2020-02-01\n    end: 2020-01-01\n",
		"invalid yaml": "crisis_periods: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestTag(t *testing.T) {
	raw, err := dataset.New([]string{"Date", "headline"}, [][]any{
		{"15/02/2020", "in covid"},
		{"not a date", "unparsed"},
		{"15/06/2020", "after"},
		{nil, "missing"},
		{"31/03/2020", "last day"},
	})
	require.NoError(t, err)
	ds, err := clean.ParseDates(raw, "Date")
	require.NoError(t, err)

	ranges := []types.PeriodRange{{Start: day(2020, 1, 1), End: day(2020, 3, 31), Name: "COVID"}}
	out, err := Tag(ds, "Date", ranges)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "headline", TypeCol, NameCol}, out.Columns())

	assert.Equal(t, TypeCrisis, out.Value(0, TypeCol))
	assert.Equal(t, "COVID", out.Value(0, NameCol))
	assert.Equal(t, TypeNormal, out.Value(1, TypeCol))
	assert.Equal(t, NameNormal, out.Value(1, NameCol))
	assert.Equal(t, TypeNormal, out.Value(2, TypeCol))
	assert.Equal(t, TypeNormal, out.Value(3, TypeCol))
	assert.Equal(t, TypeCrisis, out.Value(4, TypeCol), "end is inclusive")

	assert.False(t, ds.Has(TypeCol), "input must not change")
}

func TestTagLaterRangeWins(t *testing.T) {
	ds, err := dataset.New([]string{"Date"}, [][]any{{day(2020, 3, 10)}, {day(2020, 1, 10)}})
	require.NoError(t, err)

	out, err := Tag(ds, "Date", []types.PeriodRange{
		{Start: day(2020, 1, 1), End: day(2020, 12, 31), Name: "Year"},
		{Start: day(2020, 3, 1), End: day(2020, 3, 31), Name: "March"},
	})
	require.NoError(t, err)

	assert.Equal(t, "March", out.Value(0, NameCol))
	assert.Equal(t, "Year", out.Value(1, NameCol))
}

func TestTagNoRanges(t *testing.T) {
	ds, err := dataset.New([]string{"Date"}, [][]any{{day(2020, 3, 10)}})
	require.NoError(t, err)

	out, err := Tag(ds, "Date", nil)
	require.NoError(t, err)
	assert.Equal(t, TypeNormal, out.Value(0, TypeCol))
}

func TestTagMissingColumn(t *testing.T) {
	ds, err := dataset.New([]string{"headline"}, [][]any{{"x"}})
	require.NoError(t, err)
	_, err = Tag(ds, "Date", nil)
	assert.Error(t, err)
}

func TestTagFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periods.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crisis_periods:\n  - start: 2020-01-01\n    end: 2020-03-31\n    name: COVID\n"), 0o644))

	ds, err := dataset.New([]string{"Date"}, [][]any{{day(2020, 2, 15)}})
	require.NoError(t, err)

	out, err := TagFile(ds, "Date", path)
	require.NoError(t, err)
	assert.Equal(t, "COVID", out.Value(0, NameCol))

	_, err = TagFile(ds, "Date", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
