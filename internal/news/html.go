package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"headline-sentiment/internal/clean"
	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/store"
	"headline-sentiment/internal/types"
)

// HTMLSource scrapes headlines from a listing page using CSS selectors.
type HTMLSource struct {
	src       store.NewsSource
	timeout   time.Duration
	userAgent string
}

func NewHTMLSource(src store.NewsSource, timeout time.Duration, userAgent string) *HTMLSource {
	return &HTMLSource{src: src, timeout: timeout, userAgent: userAgent}
}

func (s *HTMLSource) Name() string { return s.src.Name }

func (s *HTMLSource) Fetch(ctx context.Context, limit int) ([]types.Headline, error) {
	var out []types.Headline

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
		colly.StdlibContext(ctx),
	)
	if s.timeout > 0 {
		c.SetRequestTimeout(s.timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		if s.userAgent != "" {
			r.Headers.Set("User-Agent", s.userAgent)
		}
	})

	c.OnHTML(s.src.Item, func(e *colly.HTMLElement) {
		if limit > 0 && len(out) >= limit {
			return
		}
		title := strings.TrimSpace(e.DOM.Find(s.src.Title).First().Text())
		if title == "" {
			return
		}

		h := types.Headline{Title: title, Source: s.src.Name}

		linkSel := s.src.Link
		if linkSel == "" {
			linkSel = s.src.Title
		}
		if href, ok := e.DOM.Find(linkSel).First().Attr("href"); ok {
			h.URL = e.Request.AbsoluteURL(href)
		}
		if s.src.Date != "" {
			h.PublishedAt = parseDate(e.DOM.Find(s.src.Date).First())
		}
		out = append(out, h)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", s.src.Name, "url", r.Request.URL.String(), "status", r.StatusCode)
	})

	if err := c.Visit(s.src.URL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", s.src.URL, err)
	}
	c.Wait()
	return out, nil
}

// parseDate prefers a machine-readable datetime attribute over the text.
func parseDate(sel *goquery.Selection) time.Time {
	if v, ok := sel.Attr("datetime"); ok {
		if d, ok := clean.ParseDayFirst(v); ok {
			return d
		}
	}
	if d, ok := clean.ParseDayFirst(strings.TrimSpace(sel.Text())); ok {
		return d
	}
	return time.Time{}
}
