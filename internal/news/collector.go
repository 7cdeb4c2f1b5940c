// Package news gathers raw financial headlines into the CSV the scorer reads.
package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/interfaces"
	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/store"
	"headline-sentiment/internal/types"
)

// DateLayout is day-first so the cleaner reads the dates back unchanged.
const DateLayout = "02/01/2006"

// Columns written by ToDataset.
var Columns = []string{"headline", "Date", "source", "url"}

// Collector pulls headlines from every configured source in turn.
type Collector struct {
	sources []interfaces.HeadlineSource
	limit   int
}

// NewCollector builds sources from the news section of the config.
func NewCollector(cfg *store.Config) (*Collector, error) {
	timeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second
	client := &http.Client{Timeout: timeout}

	sources := make([]interfaces.HeadlineSource, 0, len(cfg.News.Sources))
	for _, src := range cfg.News.Sources {
		switch src.Kind {
		case "rss", "":
			sources = append(sources, NewRSSSource(src, client, cfg.News.UserAgent))
		case "html":
			sources = append(sources, NewHTMLSource(src, timeout, cfg.News.UserAgent))
		default:
			return nil, fmt.Errorf("news source '%s': unknown kind '%s'", src.Name, src.Kind)
		}
	}
	return &Collector{sources: sources, limit: cfg.News.MaxPerSource}, nil
}

// SetLimit overrides the per-source headline cap; 0 means unlimited.
func (c *Collector) SetLimit(n int) { c.limit = n }

// Collect fetches every source. A failing source is logged and skipped.
// Titles are NFKC-normalized with whitespace collapsed; empty and duplicate
// titles are dropped, keeping the first occurrence.
func (c *Collector) Collect(ctx context.Context) []types.Headline {
	logger.Info(ctx, "Starting headline collection", "sources", len(c.sources), "limit", c.limit)

	seen := map[string]bool{}
	var out []types.Headline
	for _, src := range c.sources {
		items, err := src.Fetch(ctx, c.limit)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to fetch source", err, "source", src.Name())
			continue
		}

		kept := 0
		for _, h := range items {
			h.Title = NormalizeTitle(h.Title)
			if h.Title == "" {
				continue
			}
			key := strings.ToLower(h.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, h)
			kept++
		}
		logger.Info(ctx, "Source collected", "source", src.Name(), "fetched", len(items), "kept", kept)
	}

	logger.Info(ctx, "Headline collection completed", "headlines", len(out))
	return out
}

// NormalizeTitle applies NFKC and collapses runs of whitespace.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// ToDataset lays headlines out as headline, Date, source, url. Headlines
// without a date get a null Date.
func ToDataset(headlines []types.Headline) *dataset.Dataset {
	rows := make([][]any, len(headlines))
	for i, h := range headlines {
		var date any
		if !h.PublishedAt.IsZero() {
			date = h.PublishedAt.Format(DateLayout)
		}
		rows[i] = []any{h.Title, date, h.Source, nullIfEmpty(h.URL)}
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
