package types

import "time"

// Sentiment class names in tie-break order.
const (
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
	LabelPositive = "positive"
)

// Labels lists the classes in the fixed order used for top-label selection.
var Labels = []string{LabelNegative, LabelNeutral, LabelPositive}

// LabelScore is one (class, score) pair as returned by a classifier.
// Label casing is whatever the model emits.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassProbabilities holds the per-class scores of a single text.
// Values are kept as the model returned them; they need not sum to 1.
type ClassProbabilities struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// Headline is a raw news headline gathered by the collector.
type Headline struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time // zero when the source gave no usable date
}

// PeriodRange tags rows whose date falls in [Start, End].
type PeriodRange struct {
	Start time.Time
	End   time.Time
	Name  string
}
