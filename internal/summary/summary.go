// Package summary aggregates scored headlines per tagged period.
package summary

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/periods"
	"headline-sentiment/internal/sentiment"
	"headline-sentiment/internal/types"
)

// TotalName labels the row aggregating every period.
const TotalName = "TOTAL"

// Columns of the summary table.
var Columns = []string{
	"period_name", "period_type", "rows",
	"negative", "neutral", "positive",
	"mean_neg", "mean_neu", "mean_pos", "mean_confidence",
}

// PeriodRow holds the sentiment statistics of one period. Means are NaN
// when the period has no scored rows.
type PeriodRow struct {
	Name           string
	Type           string
	Rows           int
	LabelCounts    map[string]int
	MeanNeg        float64
	MeanNeu        float64
	MeanPos        float64
	MeanConfidence float64
}

type Summary struct {
	Periods []PeriodRow // sorted by name
	Total   PeriodRow
}

type accum struct {
	typ    string
	rows   int
	labels map[string]int
	vals   [4][]float64
}

func (a *accum) add(ds *dataset.Dataset, r int) {
	a.rows++
	if l, ok := ds.Value(r, sentiment.LabelCol).(string); ok && l != "" {
		a.labels[l]++
	}
	for i, col := range []string{sentiment.NegCol, sentiment.NeuCol, sentiment.PosCol, sentiment.ConfidenceCol} {
		v := ds.Value(r, col)
		if f, ok := dataset.AsFloat(v); ok && !dataset.IsNull(v) {
			a.vals[i] = append(a.vals[i], f)
		}
	}
}

func (a *accum) row(name string) PeriodRow {
	return PeriodRow{
		Name:           name,
		Type:           a.typ,
		Rows:           a.rows,
		LabelCounts:    a.labels,
		MeanNeg:        stat.Mean(a.vals[0], nil),
		MeanNeu:        stat.Mean(a.vals[1], nil),
		MeanPos:        stat.Mean(a.vals[2], nil),
		MeanConfidence: stat.Mean(a.vals[3], nil),
	}
}

func newAccum(typ string) *accum {
	return &accum{typ: typ, labels: map[string]int{}}
}

// SummarizeByPeriod groups a scored, period-tagged dataset by period_name.
func SummarizeByPeriod(ds *dataset.Dataset) (*Summary, error) {
	for _, col := range []string{periods.NameCol, sentiment.LabelCol} {
		if !ds.Has(col) {
			return nil, fmt.Errorf("summarize: column %q not found", col)
		}
	}

	aggs := map[string]*accum{}
	total := newAccum("")
	for r := 0; r < ds.Len(); r++ {
		name := dataset.FormatCell(ds.Value(r, periods.NameCol))
		a := aggs[name]
		if a == nil {
			typ := ""
			if ds.Has(periods.TypeCol) {
				typ = dataset.FormatCell(ds.Value(r, periods.TypeCol))
			}
			a = newAccum(typ)
			aggs[name] = a
		}
		a.add(ds, r)
		total.add(ds, r)
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := &Summary{Total: total.row(TotalName)}
	for _, k := range keys {
		s.Periods = append(s.Periods, aggs[k].row(k))
	}
	return s, nil
}

// Dataset renders the summary as a table, periods first, then the total.
func (s *Summary) Dataset() *dataset.Dataset {
	rows := make([][]any, 0, len(s.Periods)+1)
	for _, p := range append(append([]PeriodRow(nil), s.Periods...), s.Total) {
		rows = append(rows, []any{
			p.Name, nullIfEmpty(p.Type), float64(p.Rows),
			float64(p.LabelCounts[types.LabelNegative]),
			float64(p.LabelCounts[types.LabelNeutral]),
			float64(p.LabelCounts[types.LabelPositive]),
			p.MeanNeg, p.MeanNeu, p.MeanPos, p.MeanConfidence,
		})
	}
	ds, _ := dataset.New(Columns, rows)
	return ds
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func WriteCSV(s *Summary, path string) error {
	return dataset.WriteCSV(s.Dataset(), path)
}

func WriteXLSX(s *Summary, path string) error {
	return dataset.WriteXLSX(s.Dataset(), path, "summary")
}
