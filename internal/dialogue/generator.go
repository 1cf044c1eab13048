package dialogue

import (
	"context"
	"fmt"
	"strings"
)

// GenerationStatus is the outcome of a generative call.
type GenerationStatus string

const (
	GenerationGenerated   GenerationStatus = "generated"
	GenerationDisabled    GenerationStatus = "disabled"
	GenerationRateLimited GenerationStatus = "rate_limited"
	GenerationMalformed   GenerationStatus = "malformed"
	GenerationFailed      GenerationStatus = "failed"
)

// Generation carries either generated text or the reason there is none.
type Generation struct {
	Text   string
	Status GenerationStatus
}

// OK reports whether Text can be used as the reply.
func (g Generation) OK() bool {
	return g.Status == GenerationGenerated && strings.TrimSpace(g.Text) != ""
}

// Generator produces a reply for a prompt. Implementations never return an
// error; failures are reported through Status.
type Generator interface {
	Generate(ctx context.Context, prompt string) Generation
}

// DisabledGenerator always reports GenerationDisabled.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(context.Context, string) Generation {
	return Generation{Status: GenerationDisabled}
}

// DefaultHistoryWindow is how many prior turns go into a prompt.
const DefaultHistoryWindow = 5

const responseRequirements = `RESPONSE REQUIREMENTS:
- Keep responses SHORT (maximum 50 words)
- Write in PARAGRAPH format (no bullet points or lists)
- Be conversational and friendly
- Focus on one main point per response
- If pricing is discussed, provide specific ranges
- Ask only ONE follow-up question if needed`

// PromptInput is everything BuildPrompt serializes.
type PromptInput struct {
	Persona        *Persona
	Context        ConversationContext
	History        []Turn
	Window         int
	Message        string
	Classification Classification
}

// BuildPrompt assembles the single-string prompt for a generator.
func BuildPrompt(in PromptInput) string {
	p := in.Persona
	var b strings.Builder

	b.WriteString(strings.TrimSpace(p.Instructions))
	b.WriteString("\n\nCURRENT CONTEXT:\n")
	b.WriteString(describeContext(p, in.Context))

	calc := p.Calculator()
	if calc.HasPricing() || len(calc.Budgets()) > 0 {
		b.WriteString("\n\nPRICING STRUCTURE:\n")
		b.WriteString(DescribeTable(p.Currency, calc.Table(), calc.Budgets()))
	}

	window := in.Window
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	recent := in.History
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	b.WriteString("\n\nCONVERSATION HISTORY:\n")
	for _, t := range recent {
		fmt.Fprintf(&b, "User: %s\nBot: %s\n", t.UserText, t.BotText)
	}

	fmt.Fprintf(&b, "\nUSER MESSAGE: %q\n", in.Message)
	fmt.Fprintf(&b, "DETECTED INTENT: %s\n", in.Classification.Intent)
	fmt.Fprintf(&b, "CONFIDENCE: %.0f%%\n\n", in.Classification.Confidence*100)
	b.WriteString(responseRequirements)
	if p.Title != "" {
		fmt.Fprintf(&b, "\n\nRespond as the %s:", p.Title)
	}
	return b.String()
}

func describeContext(p *Persona, c ConversationContext) string {
	orNone := func(s string) string {
		if s == "" {
			return "Not specified"
		}
		return s
	}
	lines := []string{
		"Last Topic: " + orNone(c.LastTopic),
		"Sentiment: " + string(c.Sentiment),
	}
	switch p.Machine.(type) {
	case EscalationMachine:
		lines = append(lines,
			fmt.Sprintf("Escalation Level: %d", c.EscalationLevel),
			"Order Number: "+orNone(c.OrderNumber))
	default:
		followers := "Not specified"
		if c.Followers != nil {
			followers = FormatCount(*c.Followers)
		}
		price := "Not specified"
		if c.ProposedPrice != nil {
			price = FormatAmount(p.Currency, *c.ProposedPrice)
		}
		lines = append(lines,
			"Platform: "+orNone(c.Platform),
			"Followers: "+followers,
			"Engagement Rate: "+orNone(c.Engagement),
			"Content Type: "+orNone(c.ContentType),
			"Niche: "+orNone(c.Niche),
			"Demographics: "+orNone(c.Demographics),
			"Service: "+orNone(c.ServiceType),
			"Proposed Price: "+price,
			"Conversation Stage: "+string(c.ConversationStage),
			"Negotiation Stage: "+string(c.NegotiationStage),
			fmt.Sprintf("Counter Offers Made: %d", c.CounterOfferCount))
	}
	return strings.Join(lines, "\n")
}
