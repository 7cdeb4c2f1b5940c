// Package classifier selects the sentiment model backend from configuration.
package classifier

import (
	"fmt"

	"headline-sentiment/internal/classifier/claude"
	"headline-sentiment/internal/classifier/classifierobs"
	"headline-sentiment/internal/classifier/huggingface"
	"headline-sentiment/internal/classifier/noop"
	"headline-sentiment/internal/classifier/openai"
	"headline-sentiment/internal/interfaces"
	"headline-sentiment/internal/store"
)

// New returns the configured classifier wrapped with observability.
func New(cfg *store.Config) (interfaces.Classifier, error) {
	var c interfaces.Classifier
	switch cfg.Classifier.Provider {
	case store.ProviderHuggingFace, "":
		c = huggingface.NewFinBERTClassifier(cfg)
	case store.ProviderOpenAI:
		c = openai.NewOpenAIClassifier(cfg)
	case store.ProviderClaude:
		c = claude.NewClaudeClassifier(cfg)
	case store.ProviderNoop:
		c = noop.NewNoopClassifier()
	default:
		return nil, fmt.Errorf("unknown classifier provider '%s'", cfg.Classifier.Provider)
	}
	return classifierobs.Wrap(c, cfg.Classifier.Provider), nil
}
