package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"headline-sentiment/internal/classifier/prompt"
	"headline-sentiment/internal/store"
	"headline-sentiment/internal/trace"
	"headline-sentiment/internal/types"
)

const apiVersion = "2023-06-01"

// ClaudeClassifier implements interfaces.Classifier using the Anthropic
// Messages API.
type ClaudeClassifier struct {
	cfg      *store.Config
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewClaudeClassifier(cfg *store.Config) *ClaudeClassifier {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	if cfg.Classifier.Endpoint != "" {
		endpoint = cfg.Classifier.Endpoint
	}
	// proxies set CLAUDE_API_ENDPOINT
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeClassifier{
		cfg:      cfg,
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second},
		limiter:  prompt.Limiter(cfg.Classifier.RequestsPerSecond),
	}
}

func (c *ClaudeClassifier) Classify(ctx context.Context, texts []string) ([][]types.LabelScore, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if len(texts) == 0 {
		return [][]types.LabelScore{}, nil
	}

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("CLAUDE_API_KEY missing")
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
	reqBody := map[string]any{
		"model":  c.cfg.Classifier.Model,
		"system": system,
		"messages": []map[string]string{
			{"role": "user", "content": prompt.Build(inputs)},
		},
		"max_tokens":  c.cfg.Classifier.MaxTokens,
		"temperature": c.cfg.Classifier.Temperature,
	}
	bb, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("claude http %d: %s", resp.StatusCode, string(respBytes))
	}

	return prompt.Parse(extractText(respBytes), len(texts))
}

// extractText pulls the assistant text out of a Messages API response,
// falling back to the raw body when the shape is unfamiliar.
func extractText(b []byte) string {
	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Completion string `json:"completion"`
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return string(b)
	}

	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() > 0 {
		return sb.String()
	}
	if strings.TrimSpace(r.Completion) != "" {
		return r.Completion
	}
	return string(b)
}
