package clean

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"headline-sentiment/internal/dataset"
)

// Day-first layouts tried before falling back to dateparse.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"02-01-2006",
	"2-1-2006",
	"02-01-06",
	"02.01.2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// Tried only when no day-first reading is valid, e.g. 03/15/2021.
var monthFirstLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
}

// ParseDayFirst parses s permissively, reading ambiguous numeric dates as
// day/month. A date only valid month-first is still accepted. It reports
// false when s is not a recognizable date.
func ParseDayFirst(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layouts := range [][]string{dayFirstLayouts, monthFirstLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(false), dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDates returns a copy of ds with col parsed as day-first dates.
// Cells that cannot be parsed become null; only a missing column is an error.
func ParseDates(ds *dataset.Dataset, col string) (*dataset.Dataset, error) {
	cells, err := ds.Column(col)
	if err != nil {
		return nil, fmt.Errorf("parse dates: %w", err)
	}
	parsed := make([]any, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case time.Time:
			parsed[i] = v
		case string:
			if t, ok := ParseDayFirst(v); ok {
				parsed[i] = t
			}
		case float64:
			if t, ok := ParseDayFirst(dataset.FormatCell(v)); ok {
				parsed[i] = t
			}
		}
	}
	return ds.WithColumn(col, parsed)
}
