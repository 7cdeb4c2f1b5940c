package noop

import (
	"context"

	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/types"
)

// NoopClassifier is the offline fallback used when no model is configured.
type NoopClassifier struct{}

// NewNoopClassifier returns a classifier that scores every text neutral.
func NewNoopClassifier() *NoopClassifier {
	return &NoopClassifier{}
}

// Classify returns neutral=1.0 for every text.
func (c *NoopClassifier) Classify(ctx context.Context, texts []string) ([][]types.LabelScore, error) {
	logger.Debug(ctx, "Noop classifier called - always returns neutral", "texts", len(texts))
	out := make([][]types.LabelScore, len(texts))
	for i := range texts {
		out[i] = []types.LabelScore{
			{Label: types.LabelNegative, Score: 0},
			{Label: types.LabelNeutral, Score: 1},
			{Label: types.LabelPositive, Score: 0},
		}
	}
	return out, nil
}
