package dialogue

import (
	"context"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var classifierTracer = otel.Tracer("parley.internal.dialogue.classifier")

const (
	keywordWeight     = 1.0
	patternWeight     = 2.0
	topicBonus        = 0.5
	confidenceDivisor = 3.0
)

// Classification is the classifier output for one message.
type Classification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// IntentScore is the raw score of one catalog intent.
type IntentScore struct {
	Intent string
	Score  float64
}

// Classifier scores messages against a catalog.
type Classifier struct {
	catalog *Catalog
}

// NewClassifier creates a classifier over catalog.
func NewClassifier(catalog *Catalog) *Classifier {
	if catalog == nil {
		panic("dialogue: catalog cannot be nil")
	}
	return &Classifier{catalog: catalog}
}

// Classify returns the best scoring intent. convo supplies the last topic
// bonus and may be nil.
func (c *Classifier) Classify(ctx context.Context, message string, convo *ConversationContext) Classification {
	_, span := classifierTracer.Start(ctx, "dialogue.classify")
	defer span.End()

	best := Classification{Intent: DefaultIntent}
	if strings.TrimSpace(message) == "" {
		return best
	}

	lastTopic := ""
	if convo != nil {
		lastTopic = convo.LastTopic
	}
	highest := 0.0
	for _, s := range c.Scores(message, lastTopic) {
		// Strictly greater keeps the first-seen intent on ties.
		if s.Score > highest {
			highest = s.Score
			best.Intent = s.Intent
		}
	}
	best.Confidence = math.Min(highest/confidenceDivisor, 1)

	span.SetAttributes(
		attribute.String("dialogue.intent", best.Intent),
		attribute.Float64("dialogue.confidence", best.Confidence),
	)
	return best
}

// Scores returns every intent's score in catalog order.
func (c *Classifier) Scores(message, lastTopic string) []IntentScore {
	lower := strings.ToLower(message)
	out := make([]IntentScore, 0, c.catalog.Len())
	for _, intent := range c.catalog.intents {
		score := 0.0
		for _, kw := range intent.Keywords {
			if strings.Contains(lower, kw) {
				score += keywordWeight
			}
		}
		for _, p := range intent.Patterns {
			if p.MatchString(message) {
				score += patternWeight
			}
		}
		if lastTopic != "" && intent.ID == lastTopic {
			score += topicBonus
		}
		out = append(out, IntentScore{Intent: intent.ID, Score: score})
	}
	return out
}
