package pipeline

import (
	"context"

	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/interfaces"
	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/sentiment"
)

type ScoreOptions struct {
	CSV       string
	TextCol   string
	Out       string // derived from CSV when empty
	Suffix    string
	BatchSize int
}

// Score reads opts.CSV, appends the sentiment columns and writes the result.
// It returns the output path.
func Score(ctx context.Context, c interfaces.Classifier, opts ScoreOptions) (string, error) {
	ds, err := dataset.ReadCSV(opts.CSV)
	if err != nil {
		return "", err
	}
	logger.Info(ctx, "Loaded headlines", "path", opts.CSV, "rows", ds.Len(), "text_col", opts.TextCol)

	scored, err := sentiment.NewScorer(c).Score(ctx, ds, opts.TextCol, opts.BatchSize)
	if err != nil {
		return "", err
	}

	out := opts.Out
	if out == "" {
		out = dataset.DefaultOutputPath(opts.CSV, opts.Suffix)
	}
	if err := dataset.WriteCSV(scored, out); err != nil {
		return "", err
	}
	logger.Info(ctx, "Scored headlines written", "path", out, "rows", scored.Len())
	return out, nil
}
