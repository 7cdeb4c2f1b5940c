package interfaces

import (
	"context"

	"headline-sentiment/internal/types"
)

type HeadlineSource interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]types.Headline, error)
}

// HeadlineCollector merges every source into one deduplicated list.
type HeadlineCollector interface {
	Collect(ctx context.Context) []types.Headline
}
