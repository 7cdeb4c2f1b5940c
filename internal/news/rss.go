package news

import (
	"cmp"
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"headline-sentiment/internal/clean"
	"headline-sentiment/internal/store"
	"headline-sentiment/internal/types"
)

// RSSSource reads headlines from an RSS or Atom feed.
type RSSSource struct {
	src    store.NewsSource
	parser *gofeed.Parser
}

func NewRSSSource(src store.NewsSource, client *http.Client, userAgent string) *RSSSource {
	p := gofeed.NewParser()
	p.Client = client
	p.UserAgent = userAgent
	return &RSSSource{src: src, parser: p}
}

func (s *RSSSource) Name() string { return s.src.Name }

func (s *RSSSource) Fetch(ctx context.Context, limit int) ([]types.Headline, error) {
	feed, err := s.parser.ParseURLWithContext(s.src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", s.src.URL, err)
	}

	var out []types.Headline
	for _, item := range feed.Items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if item == nil {
			continue
		}
		h := types.Headline{
			Title:  item.Title,
			URL:    item.Link,
			Source: cmp.Or(s.src.Name, feed.Title),
		}
		switch {
		case item.PublishedParsed != nil:
			h.PublishedAt = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			h.PublishedAt = *item.UpdatedParsed
		default:
			if d, ok := clean.ParseDayFirst(item.Published); ok {
				h.PublishedAt = d
			}
		}
		out = append(out, h)
	}
	return out, nil
}
