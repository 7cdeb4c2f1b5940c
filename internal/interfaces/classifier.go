package interfaces

import (
	"context"

	"headline-sentiment/internal/types"
)

// Classifier scores a batch of texts. The result holds one entry per input
// text, in input order, each an unordered set of (label, score) pairs.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([][]types.LabelScore, error)
}
