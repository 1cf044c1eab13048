package dialogue

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Source records how a reply was produced.
type Source string

const (
	SourceTemplate  Source = "template"
	SourceGenerated Source = "generated"
	SourceApology   Source = "apology"
)

// Turn is an immutable record of one exchange.
type Turn struct {
	ID         string    `json:"id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	UserText   string    `json:"user"`
	BotText    string    `json:"bot"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Source     Source    `json:"source,omitempty"`
}

// ExportJSON writes turns as an indented JSON array in history order.
func ExportJSON(w io.Writer, turns []Turn) error {
	if turns == nil {
		turns = []Turn{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(turns); err != nil {
		return fmt.Errorf("dialogue: export transcript: %w", err)
	}
	return nil
}

// ParseTranscriptJSON reads turns previously written by ExportJSON.
func ParseTranscriptJSON(r io.Reader) ([]Turn, error) {
	var turns []Turn
	if err := json.NewDecoder(r).Decode(&turns); err != nil {
		return nil, fmt.Errorf("dialogue: parse transcript: %w", err)
	}
	return turns, nil
}

// RenderText formats turns as a human-readable transcript.
func RenderText(turns []Turn) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s] User: %s\n", t.Timestamp.UTC().Format(time.RFC3339), t.UserText)
		fmt.Fprintf(&b, "[%s] Bot: %s\n", t.Timestamp.UTC().Format(time.RFC3339), t.BotText)
		fmt.Fprintf(&b, "  intent=%s confidence=%.0f%%", t.Intent, t.Confidence*100)
		if t.Source != "" {
			fmt.Fprintf(&b, " source=%s", t.Source)
		}
		b.WriteString("\n")
	}
	return b.String()
}
