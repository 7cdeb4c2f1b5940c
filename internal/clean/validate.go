package clean

import (
	"fmt"
	"strings"

	"headline-sentiment/internal/dataset"
)

// SentimentCols are the probability columns written by the scorer.
var SentimentCols = []string{"finbert_neg", "finbert_neu", "finbert_pos", "finbert_confidence"}

const maxSamples = 5

// OffendingRow is one cell that failed probability validation.
type OffendingRow struct {
	Row   int
	Value any
}

// ValidationError reports a probability column with values outside [0,1].
type ValidationError struct {
	Column  string
	Count   int
	Samples []OffendingRow // at most 5
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s has %d values outside [0,1]. Examples:", e.Column, e.Count)
	for _, s := range e.Samples {
		fmt.Fprintf(&b, "\n  row %d: %v", s.Row, s.Value)
	}
	return b.String()
}

// ValidateProbs checks that every non-null value of each column in cols
// (SentimentCols when none are given) lies in [0,1]. Columns missing from
// the schema are skipped. It fails on the first bad column.
func ValidateProbs(ds *dataset.Dataset, cols ...string) (*dataset.Dataset, error) {
	if len(cols) == 0 {
		cols = SentimentCols
	}
	for _, col := range cols {
		if !ds.Has(col) {
			continue
		}
		cells, err := ds.Column(col)
		if err != nil {
			return nil, err
		}
		var verr *ValidationError
		for r, c := range cells {
			if dataset.IsNull(c) {
				continue
			}
			if f, ok := dataset.AsFloat(c); ok && f >= 0 && f <= 1 {
				continue
			}
			if verr == nil {
				verr = &ValidationError{Column: col}
			}
			verr.Count++
			if len(verr.Samples) < maxSamples {
				verr.Samples = append(verr.Samples, OffendingRow{Row: r, Value: c})
			}
		}
		if verr != nil {
			return nil, verr
		}
	}
	return ds.Clone(), nil
}
