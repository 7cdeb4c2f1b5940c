package pipeline

import (
	"context"
	"errors"

	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/interfaces"
	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/news"
)

// ErrNoHeadlines is returned when every source came back empty.
var ErrNoHeadlines = errors.New("no headlines collected")

// Collect gathers headlines and writes them as the scorer's input CSV.
func Collect(ctx context.Context, c interfaces.HeadlineCollector, out string) (int, error) {
	headlines := c.Collect(ctx)
	if len(headlines) == 0 {
		return 0, ErrNoHeadlines
	}
	if err := dataset.WriteCSV(news.ToDataset(headlines), out); err != nil {
		return 0, err
	}
	logger.Info(ctx, "Headlines written", "path", out, "rows", len(headlines))
	return len(headlines), nil
}
