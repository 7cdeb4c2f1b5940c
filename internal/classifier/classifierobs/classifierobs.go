package classifierobs

import (
	"context"

	"headline-sentiment/internal/interfaces"
	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/trace"
	"headline-sentiment/internal/types"
)

// observableClassifier wraps a Classifier with logging and tracing
type observableClassifier struct {
	classifier interfaces.Classifier
	provider   string
}

var _ interfaces.Classifier = (*observableClassifier)(nil)

// Wrap wraps a classifier with observability middleware
func Wrap(c interfaces.Classifier, provider string) interfaces.Classifier {
	return &observableClassifier{classifier: c, provider: provider}
}

func (oc *observableClassifier) Classify(ctx context.Context, texts []string) ([][]types.LabelScore, error) {
	ctx, span := trace.StartSpan(ctx, "classifier.Classify")
	defer span.End()

	// skip 1 so the log points at the scorer, not this wrapper
	logger.DebugSkip(ctx, 1, "Requesting sentiment scores",
		"provider", oc.provider,
		"texts", len(texts),
	)

	results, err := oc.classifier.Classify(ctx, texts)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to classify batch", err,
			"provider", oc.provider,
			"texts", len(texts),
		)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Sentiment scores received",
		"provider", oc.provider,
		"results", len(results),
	)
	return results, nil
}
