package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headline-sentiment/internal/classifier/noop"
	"headline-sentiment/internal/clean"
	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/periods"
	"headline-sentiment/internal/sentiment"
	"headline-sentiment/internal/types"
	"headline-sentiment/internal/viz"
)

const rawCSV = `Date,headline,source
15/02/2020,Markets crash on virus fears,wire
01/06/2020,Stocks rally as economy reopens,wire
10/10/2020,,wire
05/03/2021,Central bank holds rates,wire
`

type keywordClassifier struct{}

func (keywordClassifier) Classify(_ context.Context, texts []string) ([][]types.LabelScore, error) {
	out := make([][]types.LabelScore, len(texts))
	for i, t := range texts {
		switch {
		case strings.Contains(t, "crash"):
			out[i] = []types.LabelScore{{Label: "Negative", Score: 0.9}, {Label: "Neutral", Score: 0.08}, {Label: "Positive", Score: 0.02}}
		case strings.Contains(t, "rally"):
			out[i] = []types.LabelScore{{Label: "Negative", Score: 0.05}, {Label: "Neutral", Score: 0.15}, {Label: "Positive", Score: 0.8}}
		default:
			out[i] = []types.LabelScore{{Label: "Negative", Score: 0.1}, {Label: "Neutral", Score: 0.8}, {Label: "Positive", Score: 0.1}}
		}
	}
	return out, nil
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestScoreWritesDerivedPath(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "headlines.csv"), rawCSV)

	out, err := Score(context.Background(), keywordClassifier{}, ScoreOptions{
		CSV: in, TextCol: "headline", Suffix: "_finbert", BatchSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "headlines_finbert.csv"), out)

	ds, err := dataset.ReadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, append([]string{"Date", "headline", "source"}, sentiment.OutputColumns...), ds.Columns())
	assert.Equal(t, "negative", ds.Value(0, sentiment.LabelCol))
	assert.Equal(t, "positive", ds.Value(1, sentiment.LabelCol))
	assert.Equal(t, "neutral", ds.Value(2, sentiment.LabelCol), "empty headline is still scored")
	assert.Equal(t, "15/02/2020", ds.Value(0, "Date"))
}

func TestScoreKeepsPassthroughColumns(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "ids.csv"), "id,headline,volume\n"+
		"1234567890123456789,Stocks rally,2500000\n"+
		"1234567890123456790,Markets crash,3100000\n")

	out, err := Score(context.Background(), noop.NewNoopClassifier(), ScoreOptions{CSV: in, TextCol: "headline", Suffix: "_finbert"})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1234567890123456789,Stocks rally,2500000,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "1234567890123456790,Markets crash,3100000,"), lines[2])
}

func TestScoreExplicitOutAndMissingColumn(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "h.csv"), rawCSV)

	out := filepath.Join(dir, "nested", "scored.csv")
	got, err := Score(context.Background(), noop.NewNoopClassifier(), ScoreOptions{CSV: in, TextCol: "headline", Out: out})
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.FileExists(t, out)

	_, err = Score(context.Background(), noop.NewNoopClassifier(), ScoreOptions{CSV: in, TextCol: "title"})
	var cerr *sentiment.ConfigError
	assert.True(t, errors.As(err, &cerr))

	_, err = Score(context.Background(), noop.NewNoopClassifier(), ScoreOptions{CSV: filepath.Join(dir, "missing.csv"), TextCol: "headline"})
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "h.csv"), rawCSV)
	scored, err := Score(context.Background(), keywordClassifier{}, ScoreOptions{CSV: in, TextCol: "headline", Suffix: "_finbert"})
	require.NoError(t, err)

	periodsFile := writeFile(t, filepath.Join(dir, "periods.yaml"),
		"crisis_periods:\n  - start: 2020-01-01\n    end: 2020-03-31\n    name: COVID\n")

	charts := filepath.Join(dir, "figures")
	opts := AnalyzeOptions{
		CSV:       scored,
		DateCol:   "Date",
		Periods:   periodsFile,
		ChartsDir: charts,
		Hue:       periods.TypeCol,
		Out:       filepath.Join(dir, "clean.csv"),
		Summary:   filepath.Join(dir, "summary.xlsx"),
		Viewer:    viz.NopViewer{},
	}
	res, err := Analyze(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Info.Rows)
	assert.Equal(t, 1, res.Info.NACounts["headline"])
	assert.Equal(t, "COVID", res.Data.Value(0, periods.NameCol))
	assert.Equal(t, "Normal", res.Data.Value(1, periods.NameCol))
	_, isDate := res.Data.Value(0, "Date").(time.Time)
	assert.True(t, isDate)
	require.Len(t, res.Summary.Periods, 2)

	for _, f := range []string{SentimentHistFile, LabelCountsFile, ConfidenceHistFile, PairwiseFile} {
		assert.FileExists(t, filepath.Join(charts, f))
	}
	assert.FileExists(t, opts.Out)
	assert.FileExists(t, opts.Summary)
	assert.FileExists(t, filepath.Join(dir, "summary.csv"))
}

func TestAnalyzeLoadsConfiguredLocation(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "raw", "headlines_finbert.csv"),
		"Date,headline,finbert_label,finbert_neg,finbert_neu,finbert_pos,finbert_confidence\n"+
			"15/02/2020,Markets crash,negative,0.9,0.08,0.02,0.9\n"+
			"01/06/2020,Stocks rally,positive,0.05,0.15,0.8,0.8\n")
	periodsFile := writeFile(t, filepath.Join(base, "periods.yaml"), "crisis_periods: []\n")

	res, err := Analyze(context.Background(), AnalyzeOptions{
		BaseDir: base, Subdir: "raw", Filename: "headlines_finbert.csv",
		DateCol: "Date", Periods: periodsFile, Viewer: viz.NopViewer{},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Info.Rows)

	_, err = Analyze(context.Background(), AnalyzeOptions{
		BaseDir: base, Subdir: "raw", Filename: "missing.csv",
		DateCol: "Date", Periods: periodsFile, Viewer: viz.NopViewer{},
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyzeRejectsBadProbabilities(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "bad.csv"),
		"Date,headline,finbert_label,finbert_neg,finbert_neu,finbert_pos,finbert_confidence\n"+
			"01/01/2020,x,negative,1.4,0.1,0.1,1.4\n")
	periodsFile := writeFile(t, filepath.Join(dir, "periods.yaml"), "crisis_periods: []\n")

	_, err := Analyze(context.Background(), AnalyzeOptions{CSV: in, DateCol: "Date", Periods: periodsFile, Viewer: viz.NopViewer{}})
	var verr *clean.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "finbert_neg", verr.Column)
}

type staticCollector []types.Headline

func (s staticCollector) Collect(context.Context) []types.Headline { return s }

func TestCollect(t *testing.T) {
	out := filepath.Join(t.TempDir(), "raw", "headlines.csv")
	c := staticCollector{
		{Title: "Oil jumps", Source: "wire", PublishedAt: time.Date(2020, 3, 9, 0, 0, 0, 0, time.UTC)},
		{Title: "Gold steady", Source: "wire"},
	}

	n, err := Collect(context.Background(), c, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ds, err := dataset.ReadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, "09/03/2020", ds.Value(0, "Date"))
	assert.Nil(t, ds.Value(1, "Date"))

	_, err = Collect(context.Background(), staticCollector{}, out)
	assert.ErrorIs(t, err, ErrNoHeadlines)
}
