package dialogue

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrUnknownPersona is returned for persona names with no definition.
var ErrUnknownPersona = errors.New("dialogue: unknown persona")

// FollowUpRule appends a question when its conditions hold. Empty Intents
// matches every intent not listed in ExceptIntents.
type FollowUpRule struct {
	Intents       []string     `yaml:"intents"`
	ExceptIntents []string     `yaml:"except_intents"`
	Missing       []EntityKind `yaml:"missing"`
	Present       []EntityKind `yaml:"present"`
	Text          string       `yaml:"text"`
}

// QuickAction is a suggested canned reply for the UI.
type QuickAction struct {
	Label   string `json:"label" yaml:"label"`
	Message string `json:"message" yaml:"message"`
}

// Persona bundles everything that differs between bot variants.
type Persona struct {
	Name         string
	Title        string
	Instructions string
	Currency     string
	Greeting     string

	Catalog   *Catalog
	Templates map[string][]string
	Lexicon   Lexicon
	Machine   StateMachine

	Entities  []EntityKind
	Platforms []string
	Niches    []string
	Services  []string

	Pricing          PricingTable
	NicheMultipliers map[string]float64
	Budgets          []ServiceBudget
	PricingIntents   []string

	FollowUps            []FollowUpRule
	OrderAcknowledgement string
	EscalationNotice     string

	// QuickActions are keyed by "stage:platform", then "stage", then "default".
	QuickActions map[string][]QuickAction
}

// Validate checks the persona can drive a session.
func (p *Persona) Validate() error {
	if p == nil {
		return errors.New("dialogue: persona is nil")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("dialogue: persona name is required")
	}
	if p.Catalog == nil || p.Catalog.Len() == 0 {
		return fmt.Errorf("dialogue: persona %s has no intents", p.Name)
	}
	if p.Machine == nil {
		return fmt.Errorf("dialogue: persona %s has no state machine", p.Name)
	}
	if len(p.Templates[DefaultIntent]) == 0 {
		return fmt.Errorf("dialogue: persona %s has no default templates", p.Name)
	}
	return nil
}

// Calculator builds the persona's price calculator.
func (p *Persona) Calculator() *Calculator {
	return NewCalculator(p.Pricing, p.NicheMultipliers, p.Budgets)
}

// Extractor builds the persona's entity extractor.
func (p *Persona) Extractor() *Extractor {
	return NewExtractor(p.Entities, p.Platforms, p.Niches, p.Services)
}

// SuggestionsFor returns quick actions for the current stage.
func (p *Persona) SuggestionsFor(c ConversationContext) []QuickAction {
	if len(p.QuickActions) == 0 {
		return nil
	}
	keys := []string{
		string(c.ConversationStage) + ":" + c.Platform,
		string(c.ConversationStage),
		"default",
	}
	for _, k := range keys {
		if actions, ok := p.QuickActions[k]; ok {
			return append([]QuickAction(nil), actions...)
		}
	}
	return nil
}

func (p *Persona) followUpFor(intent string, c ConversationContext) (FollowUpRule, bool) {
	for _, rule := range p.FollowUps {
		if len(rule.Intents) > 0 && !slices.Contains(rule.Intents, intent) {
			continue
		}
		if slices.Contains(rule.ExceptIntents, intent) {
			continue
		}
		if !allKnown(c, rule.Present, true) || !allKnown(c, rule.Missing, false) {
			continue
		}
		return rule, true
	}
	return FollowUpRule{}, false
}

func allKnown(c ConversationContext, kinds []EntityKind, want bool) bool {
	for _, k := range kinds {
		if hasEntity(c, k) != want {
			return false
		}
	}
	return true
}

func hasEntity(c ConversationContext, kind EntityKind) bool {
	switch kind {
	case EntityOrderNumber:
		return c.OrderNumber != ""
	case EntityPrice:
		return c.ProposedPrice != nil
	case EntityFollowers:
		return c.Followers != nil
	case EntityEngagement:
		return c.Engagement != ""
	case EntityPlatform:
		return c.Platform != ""
	case EntityContentType:
		return c.ContentType != ""
	case EntityNiche:
		return c.Niche != ""
	case EntityDemographics:
		return c.Demographics != ""
	case EntityServiceType:
		return c.ServiceType != ""
	default:
		return false
	}
}

var builtins = map[string]func() *Persona{
	CustomerServicePersona: CustomerService,
	InfluencerPersona:      Influencer,
	ProcurementPersona:     Procurement,
}

// Builtin returns a fresh copy of a named built-in persona.
func Builtin(name string) (*Persona, error) {
	ctor, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPersona, name)
	}
	return ctor(), nil
}

// BuiltinNames lists the built-in persona names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
