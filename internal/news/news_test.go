package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headline-sentiment/internal/clean"
	"headline-sentiment/internal/interfaces"
	"headline-sentiment/internal/store"
	"headline-sentiment/internal/types"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Markets Wire</title>
  <item>
    <title>Stocks  slide as   yields jump</title>
    <link>https://example.com/a</link>
    <pubDate>Thu, 05 Mar 2020 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Central bank cuts rates</title>
    <link>https://example.com/b</link>
  </item>
  <item>
    <title>Third story</title>
    <link>https://example.com/c</link>
  </item>
</channel>
</rss>`

const listingPage = `<html><body>
<div class="story"><h2><a href="/news/1">Oil rallies on supply cut</a></h2><time datetime="2020-03-09">9 Mar</time></div>
<div class="story"><h2><a href="https://other.example/2">Ｂanks  rebound</a></h2><time>10/03/2020</time></div>
<div class="story"><h2></h2></div>
</body></html>`

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRSSSource(t *testing.T) {
	srv := serve(t, "application/rss+xml", rssFeed)
	src := NewRSSSource(store.NewsSource{Name: "wire", Kind: "rss", URL: srv.URL}, srv.Client(), "test-agent")

	got, err := src.Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "wire", got[0].Source)
	assert.Equal(t, "https://example.com/a", got[0].URL)
	assert.Equal(t, 2020, got[0].PublishedAt.Year())
	assert.Equal(t, time.March, got[0].PublishedAt.Month())
	assert.True(t, got[1].PublishedAt.IsZero())
}

func TestRSSSourceBadFeed(t *testing.T) {
	srv := serve(t, "text/plain", "not a feed")
	src := NewRSSSource(store.NewsSource{Name: "bad", URL: srv.URL}, srv.Client(), "")
	_, err := src.Fetch(context.Background(), 0)
	assert.Error(t, err)
}

func TestHTMLSource(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", listingPage)
	src := NewHTMLSource(store.NewsSource{
		Name: "site", Kind: "html", URL: srv.URL,
		Item: "div.story", Title: "h2", Link: "h2 a", Date: "time",
	}, 5*time.Second, "test-agent")

	got, err := src.Fetch(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Oil rallies on supply cut", got[0].Title)
	assert.Equal(t, srv.URL+"/news/1", got[0].URL)
	assert.Equal(t, 9, got[0].PublishedAt.Day())
	assert.Equal(t, "https://other.example/2", got[1].URL)
	assert.Equal(t, 10, got[1].PublishedAt.Day())
	assert.Equal(t, time.March, got[1].PublishedAt.Month())
}

func TestHTMLSourceHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	src := NewHTMLSource(store.NewsSource{Name: "gone", Kind: "html", URL: srv.URL, Item: "div", Title: "h2"}, time.Second, "")
	_, err := src.Fetch(context.Background(), 0)
	assert.Error(t, err)
}

type stubSource struct {
	name  string
	items []types.Headline
	err   error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(context.Context, int) ([]types.Headline, error) {
	return s.items, s.err
}

func collectorFrom(limit int, sources ...interfaces.HeadlineSource) *Collector {
	return &Collector{sources: sources, limit: limit}
}

func TestCollectNormalizesAndDedupes(t *testing.T) {
	c := collectorFrom(0,
		stubSource{name: "a", items: []types.Headline{
			{Title: "  Ｓtocks\tfall  "},
			{Title: ""},
			{Title: "Bonds rally"},
		}},
		stubSource{name: "broken", err: errors.New("timeout")},
		stubSource{name: "b", items: []types.Headline{
			{Title: "stocks fall"},
			{Title: "Gold steady"},
		}},
	)

	got := c.Collect(context.Background())
	require.Len(t, got, 3)
	assert.Equal(t, "Stocks fall", got[0].Title)
	assert.Equal(t, "Bonds rally", got[1].Title)
	assert.Equal(t, "Gold steady", got[2].Title)
}

func TestNewCollector(t *testing.T) {
	cfg := store.Default()
	cfg.News.Sources = []store.NewsSource{
		{Name: "feed", Kind: "rss", URL: "https://example.com/rss"},
		{Name: "page", Kind: "html", URL: "https://example.com", Item: "li", Title: "a"},
	}
	c, err := NewCollector(cfg)
	require.NoError(t, err)
	require.Len(t, c.sources, 2)
	assert.Equal(t, cfg.News.MaxPerSource, c.limit)

	cfg.News.Sources[0].Kind = "atom-ish"
	_, err = NewCollector(cfg)
	assert.Error(t, err)
}

func TestToDatasetRoundTripsDayFirst(t *testing.T) {
	ds := ToDataset([]types.Headline{
		{Title: "a", Source: "s", URL: "u", PublishedAt: time.Date(2021, 3, 5, 14, 0, 0, 0, time.UTC)},
		{Title: "b", Source: "s"},
	})
	assert.Equal(t, Columns, ds.Columns())
	assert.Equal(t, "05/03/2021", ds.Value(0, "Date"))
	assert.Nil(t, ds.Value(1, "Date"))
	assert.Nil(t, ds.Value(1, "url"))

	parsed, err := clean.ParseDates(ds, "Date")
	require.NoError(t, err)
	d := parsed.Value(0, "Date").(time.Time)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 5, d.Day())
}
