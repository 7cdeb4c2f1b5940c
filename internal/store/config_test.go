package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.BaseDir)
	assert.Equal(t, "raw", cfg.Data.Subdir)
	assert.Equal(t, "headlines_finbert.csv", cfg.Data.Filename)
	assert.Equal(t, "_finbert", cfg.Data.OutputSuffix)
	assert.Equal(t, "headline", cfg.Scoring.TextCol)
	assert.Equal(t, 32, cfg.Scoring.BatchSize)
	assert.Equal(t, ProviderHuggingFace, cfg.Classifier.Provider)
	assert.Equal(t, "ProsusAI/finbert", cfg.Classifier.Model)
	assert.Equal(t, 128, cfg.Classifier.MaxLength)
	assert.Equal(t, "config/periods.yaml", cfg.Periods.File)
	assert.Equal(t, "Date", cfg.Periods.DateCol)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
data:
  base_dir: /srv/data
scoring:
  text_col: title
  batch_size: 8
classifier:
  provider: openai
  model: gpt-4o-mini
news:
  sources:
    - name: reuters
      url: https://example.com/feed.xml
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/data", cfg.Data.BaseDir)
	assert.Equal(t, "title", cfg.Scoring.TextCol)
	assert.Equal(t, 8, cfg.Scoring.BatchSize)
	assert.Equal(t, ProviderOpenAI, cfg.Classifier.Provider)
	require.Len(t, cfg.News.Sources, 1)
	assert.Equal(t, "rss", cfg.News.Sources[0].Kind)
}

func TestDefaultModelFollowsProvider(t *testing.T) {
	tests := map[string]string{
		"huggingface": "ProsusAI/finbert",
		"openai":      "gpt-4o-mini",
		"CLAUDE":      "claude-3-5-haiku-latest",
	}
	for provider, want := range tests {
		t.Run(provider, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, "classifier:\n  provider: "+provider+"\n"))
			require.NoError(t, err)
			assert.Equal(t, want, cfg.Classifier.Model)
		})
	}

	cfg, err := LoadConfig(writeConfig(t, "classifier:\n  provider: OPENAI\n  model: gpt-4.1\n"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", cfg.Classifier.Model)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative batch size", "scoring:\n  batch_size: -1\n"},
		{"unknown provider", "classifier:\n  provider: BERTISH\n"},
		{"bad endpoint", "classifier:\n  endpoint: not a url\n"},
		{"bad source kind", "news:\n  sources:\n    - name: x\n      kind: ftp\n      url: https://example.com\n"},
		{"html without selectors", "news:\n  sources:\n    - name: x\n      kind: html\n      url: https://example.com\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "scoring: [unterminated"))
	assert.Error(t, err)
}
