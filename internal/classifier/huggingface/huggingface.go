package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
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

const defaultBaseURL = "https://api-inference.huggingface.co/models/"

// FinBERTClassifier calls a hosted text-classification model (Hugging Face
// Inference API or a text-embeddings-inference server) over HTTP.
type FinBERTClassifier struct {
	cfg      *store.Config
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewFinBERTClassifier(cfg *store.Config) *FinBERTClassifier {
	endpoint := cfg.Classifier.Endpoint
	if endpoint == "" {
		endpoint = defaultBaseURL + cfg.Classifier.Model
	}
	if ep := os.Getenv("HF_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &FinBERTClassifier{
		cfg:      cfg,
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second},
		limiter:  prompt.Limiter(cfg.Classifier.RequestsPerSecond),
	}
}

func (c *FinBERTClassifier) Classify(ctx context.Context, texts []string) ([][]types.LabelScore, error) {
	ctx, span := trace.StartSpan(ctx, "huggingface-api-call")
	defer span.End()

	if len(texts) == 0 {
		return [][]types.LabelScore{}, nil
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

	body := map[string]any{
		"inputs": inputs,
		"parameters": map[string]any{
			"top_k":      len(types.Labels),
			"truncation": true,
			"max_length": c.cfg.Classifier.MaxLength,
		},
		"options": map[string]any{"wait_for_model": true},
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := os.Getenv("HF_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("huggingface http %d: %s", resp.StatusCode, string(respBytes))
	}
	return decode(respBytes, len(texts))
}

// decode accepts the batched [[{label,score}...]...] shape and, for a single
// input, the flat [{label,score}...] shape some servers return.
func decode(b []byte, want int) ([][]types.LabelScore, error) {
	var nested [][]types.LabelScore
	if err := json.Unmarshal(b, &nested); err == nil {
		if len(nested) != want {
			return nil, fmt.Errorf("huggingface returned %d results for %d texts", len(nested), want)
		}
		return nested, nil
	}

	var flat []types.LabelScore
	if err := json.Unmarshal(b, &flat); err == nil && want == 1 {
		return [][]types.LabelScore{flat}, nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &apiErr); err == nil && apiErr.Error != "" {
		return nil, fmt.Errorf("huggingface: %s", apiErr.Error)
	}
	return nil, fmt.Errorf("huggingface: unexpected response %.200s", string(b))
}
