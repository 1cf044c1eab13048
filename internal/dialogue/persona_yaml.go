package dialogue

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type personaFile struct {
	// Base names a built-in persona supplying every omitted field.
	Base                 string                   `yaml:"base"`
	Name                 string                   `yaml:"name"`
	Title                string                   `yaml:"title"`
	Instructions         string                   `yaml:"instructions"`
	Currency             string                   `yaml:"currency"`
	Greeting             string                   `yaml:"greeting"`
	Intents              []intentFile             `yaml:"intents"`
	Templates            map[string][]string      `yaml:"templates"`
	Lexicon              *Lexicon                 `yaml:"lexicon"`
	Machine              *machineFile             `yaml:"machine"`
	Entities             []EntityKind             `yaml:"entities"`
	Platforms            []string                 `yaml:"platforms"`
	Niches               []string                 `yaml:"niches"`
	Services             []string                 `yaml:"services"`
	Pricing              *PricingTable            `yaml:"pricing"`
	NicheMultipliers     map[string]float64       `yaml:"niche_multipliers"`
	Budgets              []ServiceBudget          `yaml:"budgets"`
	PricingIntents       []string                 `yaml:"pricing_intents"`
	FollowUps            []FollowUpRule           `yaml:"follow_ups"`
	QuickActions         map[string][]QuickAction `yaml:"quick_actions"`
	EscalationNotice     string                   `yaml:"escalation_notice"`
	OrderAcknowledgement string                   `yaml:"order_acknowledgement"`
}

type intentFile struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
	Patterns []string `yaml:"patterns"`
}

type machineFile struct {
	Variant           string `yaml:"variant"`
	Threshold         int    `yaml:"threshold"`
	CounterOfferLimit int    `yaml:"counter_offer_limit"`
	TrackProfile      bool   `yaml:"track_profile"`
}

// LoadPersonaFile reads a persona definition from a YAML file.
func LoadPersonaFile(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dialogue: read persona file: %w", err)
	}
	return ParsePersona(data)
}

// ParsePersona decodes a YAML persona. Fields left out are taken from the
// built-in named by "base", if any.
func ParsePersona(data []byte) (*Persona, error) {
	var f personaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("dialogue: decode persona: %w", err)
	}

	p := &Persona{}
	if f.Base != "" {
		base, err := Builtin(f.Base)
		if err != nil {
			return nil, err
		}
		p = base
	}

	setString(&p.Name, f.Name)
	setString(&p.Title, f.Title)
	setString(&p.Instructions, f.Instructions)
	setString(&p.Currency, f.Currency)
	setString(&p.Greeting, f.Greeting)
	setString(&p.EscalationNotice, f.EscalationNotice)
	setString(&p.OrderAcknowledgement, f.OrderAcknowledgement)

	if len(f.Intents) > 0 {
		catalog, err := f.catalog()
		if err != nil {
			return nil, err
		}
		p.Catalog = catalog
	}
	if len(f.Templates) > 0 {
		p.Templates = f.Templates
	}
	if f.Lexicon != nil {
		p.Lexicon = *f.Lexicon
	}
	if f.Machine != nil {
		machine, err := f.Machine.build()
		if err != nil {
			return nil, err
		}
		p.Machine = machine
	}
	if f.Entities != nil {
		p.Entities = f.Entities
	}
	if f.Platforms != nil {
		p.Platforms = f.Platforms
	}
	if f.Niches != nil {
		p.Niches = f.Niches
	}
	if f.Services != nil {
		p.Services = f.Services
	}
	if f.Pricing != nil {
		p.Pricing = *f.Pricing
	}
	if f.NicheMultipliers != nil {
		p.NicheMultipliers = f.NicheMultipliers
	}
	if f.Budgets != nil {
		p.Budgets = f.Budgets
	}
	if f.PricingIntents != nil {
		p.PricingIntents = f.PricingIntents
	}
	if f.FollowUps != nil {
		p.FollowUps = f.FollowUps
	}
	if f.QuickActions != nil {
		p.QuickActions = f.QuickActions
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (f personaFile) catalog() (*Catalog, error) {
	defs := make([]IntentDefinition, 0, len(f.Intents))
	for _, in := range f.Intents {
		def := IntentDefinition{ID: in.ID, Keywords: in.Keywords}
		for _, expr := range in.Patterns {
			re, err := regexp.Compile(`(?i)` + expr)
			if err != nil {
				return nil, fmt.Errorf("dialogue: intent %s pattern %q: %w", in.ID, expr, err)
			}
			def.Patterns = append(def.Patterns, re)
		}
		defs = append(defs, def)
	}
	return NewCatalog(defs...)
}

func (m machineFile) build() (StateMachine, error) {
	switch strings.ToLower(m.Variant) {
	case "escalation":
		return EscalationMachine{Threshold: m.Threshold}, nil
	case "negotiation":
		return NegotiationMachine{CounterOfferLimit: m.CounterOfferLimit, TrackProfile: m.TrackProfile}, nil
	case "":
		return nil, errors.New("dialogue: machine variant is required")
	default:
		return nil, fmt.Errorf("dialogue: unknown machine variant %q", m.Variant)
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
