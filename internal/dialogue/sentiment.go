package dialogue

import "strings"

// Sentiment is the coarse polarity of a message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Lexicon holds the polarity word lists for a persona.
type Lexicon struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// SentimentAnalyzer counts lexicon hits in a message.
type SentimentAnalyzer struct {
	positive []string
	negative []string
}

// NewSentimentAnalyzer lower-cases the lexicon once.
func NewSentimentAnalyzer(lex Lexicon) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		positive: lowerAll(lex.Positive),
		negative: lowerAll(lex.Negative),
	}
}

// Analyze returns the polarity with the strictly higher hit count.
// Each word counts at most once.
func (a *SentimentAnalyzer) Analyze(message string) Sentiment {
	lower := strings.ToLower(message)
	pos := countHits(lower, a.positive)
	neg := countHits(lower, a.negative)
	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func countHits(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
