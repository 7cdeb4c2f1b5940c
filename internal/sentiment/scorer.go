// Package sentiment appends per-headline sentiment columns to a dataset.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/interfaces"
	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/types"
)

// Output columns, in the order they are appended.
const (
	LabelCol      = "finbert_label"
	NegCol        = "finbert_neg"
	NeuCol        = "finbert_neu"
	PosCol        = "finbert_pos"
	ConfidenceCol = "finbert_confidence"

	DefaultBatchSize = 32
)

// OutputColumns lists the columns Score writes.
var OutputColumns = []string{LabelCol, NegCol, NeuCol, PosCol, ConfidenceCol}

// ConfigError reports a text column that is not in the dataset.
type ConfigError struct {
	Column    string
	Available []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("text column '%s' not found; available columns: %s", e.Column, strings.Join(e.Available, ", "))
}

type Scorer struct {
	classifier interfaces.Classifier
}

func NewScorer(c interfaces.Classifier) *Scorer {
	return &Scorer{classifier: c}
}

// Score classifies textCol in contiguous batches and returns a copy of ds
// with the five sentiment columns appended. Batches run one after another.
func (s *Scorer) Score(ctx context.Context, ds *dataset.Dataset, textCol string, batchSize int) (*dataset.Dataset, error) {
	if !ds.Has(textCol) {
		return nil, &ConfigError{Column: textCol, Available: ds.Columns()}
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	texts, err := ds.Strings(textCol)
	if err != nil {
		return nil, err
	}

	n := len(texts)
	total := (n + batchSize - 1) / batchSize
	op := logger.StartOperation(ctx, "sentiment.Score", "rows", n, "batch_size", batchSize, "batches", total)
	ctx = op.GetContext()

	labels := make([]any, n)
	neg := make([]any, n)
	neu := make([]any, n)
	pos := make([]any, n)
	conf := make([]any, n)

	for b := 0; b < total; b++ {
		lo := b * batchSize
		hi := min(lo+batchSize, n)

		results, err := s.classifier.Classify(ctx, texts[lo:hi])
		if err != nil {
			err = fmt.Errorf("classify batch %d/%d: %w", b+1, total, err)
			op.EndWithError(err)
			return nil, err
		}
		if len(results) != hi-lo {
			err = fmt.Errorf("classify batch %d/%d: got %d results for %d texts", b+1, total, len(results), hi-lo)
			op.EndWithError(err)
			return nil, err
		}

		for i, r := range results {
			p := Aggregate(r)
			label, c := TopLabel(p)
			row := lo + i
			labels[row] = label
			neg[row] = p.Negative
			neu[row] = p.Neutral
			pos[row] = p.Positive
			conf[row] = c
		}
		logger.Batch(ctx, b+1, total, hi-lo)
	}

	out := ds
	for i, values := range [][]any{labels, neg, neu, pos, conf} {
		if out, err = out.WithColumn(OutputColumns[i], values); err != nil {
			op.EndWithError(err)
			return nil, err
		}
	}
	op.End("rows", n)
	return out, nil
}

// Aggregate maps a classifier result onto the three classes. Labels match
// case-insensitively; a class the result omits scores 0.
func Aggregate(scores []types.LabelScore) types.ClassProbabilities {
	var p types.ClassProbabilities
	for _, s := range scores {
		switch strings.ToLower(strings.TrimSpace(s.Label)) {
		case types.LabelNegative:
			p.Negative = s.Score
		case types.LabelNeutral:
			p.Neutral = s.Score
		case types.LabelPositive:
			p.Positive = s.Score
		}
	}
	return p
}

// TopLabel returns the highest-scoring class and its score. Ties go to the
// earliest class in negative, neutral, positive order.
func TopLabel(p types.ClassProbabilities) (string, float64) {
	vals := []float64{p.Negative, p.Neutral, p.Positive}
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return types.Labels[best], vals[best]
}
