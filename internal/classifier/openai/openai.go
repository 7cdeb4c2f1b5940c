package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"headline-sentiment/internal/classifier/prompt"
	"headline-sentiment/internal/store"
	"headline-sentiment/internal/trace"
	"headline-sentiment/internal/types"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIClassifier asks a chat completion model for per-headline class
// probabilities.
type OpenAIClassifier struct {
	cfg      *store.Config
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewOpenAIClassifier(cfg *store.Config) *OpenAIClassifier {
	endpoint := defaultEndpoint
	if cfg.Classifier.Endpoint != "" {
		endpoint = cfg.Classifier.Endpoint
	}
	return &OpenAIClassifier{
		cfg:      cfg,
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second},
		limiter:  prompt.Limiter(cfg.Classifier.RequestsPerSecond),
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, texts []string) ([][]types.LabelScore, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if len(texts) == 0 {
		return [][]types.LabelScore{}, nil
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	inputs := make([]string, len(texts))
	for i, t := range texts {
		inputs[i] = prompt.Truncate(t, c.cfg.Classifier.MaxLength)
	}

	system := c.cfg.Classifier.System
	if system == "" {
		system = prompt.DefaultSystem
	}
	body := map[string]any{
		"model":       c.cfg.Classifier.Model,
		"messages":    []map[string]string{{"role": "system", "content": system}, {"role": "user", "content": prompt.Build(inputs)}},
		"temperature": c.cfg.Classifier.Temperature,
		"max_tokens":  c.cfg.Classifier.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai http %d: %s", resp.StatusCode, string(b))
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}
	if len(r.Choices) == 0 {
		return nil, errors.New("no choices")
	}

	return prompt.Parse(r.Choices[0].Message.Content, len(texts))
}
