// Package dialogue implements the scripted conversation core: intent
// classification, sentiment scoring, context tracking, price fairness and
// templated reply composition for a single chat session.
package dialogue

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultIntent is returned when no catalog intent scores above zero.
const DefaultIntent = "default"

// IntentDefinition describes one intent and the signals that trigger it.
type IntentDefinition struct {
	ID       string
	Keywords []string
	Patterns []*regexp.Regexp
}

// Catalog is an ordered, immutable set of intents. Iteration order is the
// tie-break order used by the classifier.
type Catalog struct {
	intents []IntentDefinition
	index   map[string]int
}

// NewCatalog validates the definitions and freezes their order.
func NewCatalog(defs ...IntentDefinition) (*Catalog, error) {
	c := &Catalog{
		intents: make([]IntentDefinition, 0, len(defs)),
		index:   make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		id := strings.TrimSpace(def.ID)
		if id == "" {
			return nil, errors.New("dialogue: intent id is required")
		}
		if id == DefaultIntent {
			return nil, fmt.Errorf("dialogue: intent id %q is reserved", DefaultIntent)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("dialogue: duplicate intent %q", id)
		}
		keywords := make([]string, 0, len(def.Keywords))
		for _, kw := range def.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		patterns := make([]*regexp.Regexp, 0, len(def.Patterns))
		for _, p := range def.Patterns {
			if p != nil {
				patterns = append(patterns, p)
			}
		}
		c.index[id] = len(c.intents)
		c.intents = append(c.intents, IntentDefinition{ID: id, Keywords: keywords, Patterns: patterns})
	}
	return c, nil
}

// MustCatalog is NewCatalog for static tables.
func MustCatalog(defs ...IntentDefinition) *Catalog {
	c, err := NewCatalog(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Intents returns the definitions in catalog order.
func (c *Catalog) Intents() []IntentDefinition {
	if c == nil {
		return nil
	}
	out := make([]IntentDefinition, len(c.intents))
	copy(out, c.intents)
	return out
}

// Has reports whether id is a catalog intent.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}

// Len returns the number of intents.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.intents)
}

// patterns compiles case-insensitive expressions for the static persona tables.
func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+expr))
	}
	return out
}
