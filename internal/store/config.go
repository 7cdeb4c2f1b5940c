package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Providers accepted in classifier.provider.
const (
	ProviderHuggingFace = "HUGGINGFACE"
	ProviderOpenAI      = "OPENAI"
	ProviderClaude      = "CLAUDE"
	ProviderNoop        = "NOOP"
)

// Model used when classifier.model is unset, per provider.
var defaultModels = map[string]string{
	ProviderHuggingFace: "ProsusAI/finbert",
	ProviderOpenAI:      "gpt-4o-mini",
	ProviderClaude:      "claude-3-5-haiku-latest",
	ProviderNoop:        "noop",
}

type Config struct {
	Data struct {
		BaseDir      string `yaml:"base_dir" validate:"required"`
		Subdir       string `yaml:"subdir" validate:"required"`
		Filename     string `yaml:"filename" validate:"required"`
		OutputSuffix string `yaml:"output_suffix"`
	} `yaml:"data"`
	Scoring struct {
		TextCol   string `yaml:"text_col" validate:"required"`
		BatchSize int    `yaml:"batch_size" validate:"gt=0"`
	} `yaml:"scoring"`
	Classifier struct {
		Provider          string  `yaml:"provider"`
		Model             string  `yaml:"model" validate:"required"`
		Endpoint          string  `yaml:"endpoint" validate:"omitempty,url"`
		MaxLength         int     `yaml:"max_length" validate:"gt=0"`
		TimeoutSeconds    int     `yaml:"timeout_seconds" validate:"gt=0"`
		RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
		MaxTokens         int     `yaml:"max_tokens" validate:"gte=0"`
		Temperature       float32 `yaml:"temperature"`
		System            string  `yaml:"system"`
	} `yaml:"classifier"`
	Periods struct {
		File    string `yaml:"file" validate:"required"`
		DateCol string `yaml:"date_col" validate:"required"`
	} `yaml:"periods"`
	Charts struct {
		Dir      string `yaml:"dir"`
		Hue      string `yaml:"hue"`
		Headless bool   `yaml:"headless"`
	} `yaml:"charts"`
	News struct {
		UserAgent      string       `yaml:"user_agent"`
		TimeoutSeconds int          `yaml:"timeout_seconds" validate:"gte=0"`
		MaxPerSource   int          `yaml:"max_per_source" validate:"gte=0"`
		Sources        []NewsSource `yaml:"sources" validate:"dive"`
	} `yaml:"news"`
}

// NewsSource is one headline source for the collector.
type NewsSource struct {
	Name string `yaml:"name" validate:"required"`
	Kind string `yaml:"kind" validate:"oneof=rss html"`
	URL  string `yaml:"url" validate:"required,url"`
	// CSS selectors, html sources only
	Item  string `yaml:"item"`
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
	Date  string `yaml:"date"`
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	switch c.Classifier.Provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderClaude, ProviderNoop:
	default:
		return fmt.Errorf("invalid classifier.provider '%s': must be HUGGINGFACE, OPENAI, CLAUDE or NOOP", c.Classifier.Provider)
	}
	for _, s := range c.News.Sources {
		if s.Kind == "html" && (s.Item == "" || s.Title == "") {
			return fmt.Errorf("news source '%s': html sources need item and title selectors", s.Name)
		}
	}
	return nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// LoadConfig reads a YAML config file. A missing file yields Default().
func LoadConfig(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Data.BaseDir == "" {
		c.Data.BaseDir = "data"
	}
	if c.Data.Subdir == "" {
		c.Data.Subdir = "raw"
	}
	if c.Data.Filename == "" {
		c.Data.Filename = "headlines_finbert.csv"
	}
	if c.Data.OutputSuffix == "" {
		c.Data.OutputSuffix = "_finbert"
	}
	if c.Scoring.TextCol == "" {
		c.Scoring.TextCol = "headline"
	}
	if c.Scoring.BatchSize == 0 {
		c.Scoring.BatchSize = 32
	}
	c.Classifier.Provider = strings.ToUpper(strings.TrimSpace(c.Classifier.Provider))
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = ProviderHuggingFace
	}
	if c.Classifier.Model == "" {
		c.Classifier.Model = defaultModels[c.Classifier.Provider]
	}
	if c.Classifier.MaxLength == 0 {
		c.Classifier.MaxLength = 128
	}
	if c.Classifier.TimeoutSeconds == 0 {
		c.Classifier.TimeoutSeconds = 60
	}
	if c.Classifier.MaxTokens == 0 {
		c.Classifier.MaxTokens = 1024
	}
	if c.Periods.File == "" {
		c.Periods.File = "config/periods.yaml"
	}
	if c.Periods.DateCol == "" {
		c.Periods.DateCol = "Date"
	}
	if c.Charts.Dir == "" {
		c.Charts.Dir = "reports/figures"
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 30
	}
	if c.News.MaxPerSource == 0 {
		c.News.MaxPerSource = 50
	}
	for i := range c.News.Sources {
		c.News.Sources[i].Kind = strings.ToLower(c.News.Sources[i].Kind)
		if c.News.Sources[i].Kind == "" {
			c.News.Sources[i].Kind = "rss"
		}
	}
}
