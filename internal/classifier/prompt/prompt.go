// Package prompt builds and parses the JSON contract shared by the chat-model
// classifiers.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"headline-sentiment/internal/types"
)

// DefaultSystem is used when classifier.system is empty.
const DefaultSystem = "You are a financial sentiment classifier. Output STRICT JSON only."

const schema = `[{"negative":0.0,"neutral":0.0,"positive":0.0}]`

// Build renders the user message for a batch of headlines.
func Build(texts []string) string {
	tb, _ := json.Marshal(texts)
	return fmt.Sprintf(
		"Classify the sentiment of each financial news headline below.\n"+
			"Return a JSON array with exactly %d objects, one per headline and in the same order, "+
			"each giving probabilities in [0,1] for negative, neutral and positive.\n"+
			"Schema:%s\nHeadlines:%s\n\nRespond ONLY with compact JSON matching the schema.",
		len(texts), schema, string(tb))
}

// Parse extracts the probability array from model output. The array may be
// wrapped in prose or a code fence.
func Parse(text string, want int) ([][]types.LabelScore, error) {
	t := strings.TrimSpace(text)
	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON array in model output")
	}

	var rows []types.ClassProbabilities
	if err := json.Unmarshal([]byte(t[start:end+1]), &rows); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if len(rows) != want {
		return nil, fmt.Errorf("model returned %d results for %d headlines", len(rows), want)
	}

	out := make([][]types.LabelScore, len(rows))
	for i, p := range rows {
		out[i] = []types.LabelScore{
			{Label: types.LabelNegative, Score: p.Negative},
			{Label: types.LabelNeutral, Score: p.Neutral},
			{Label: types.LabelPositive, Score: p.Positive},
		}
		for _, ls := range out[i] {
			if ls.Score < 0 || ls.Score > 1 {
				return nil, fmt.Errorf("result %d: %s probability %v outside [0, 1]", i, ls.Label, ls.Score)
			}
		}
	}
	return out, nil
}

// Truncate cuts text to at most maxWords whitespace-separated words.
// maxWords <= 0 disables truncation.
func Truncate(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	fields := strings.Fields(text)
	if len(fields) <= maxWords {
		return text
	}
	return strings.Join(fields[:maxWords], " ")
}

// Limiter returns a request limiter for rps requests per second, or nil
// when rps is not positive.
func Limiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
