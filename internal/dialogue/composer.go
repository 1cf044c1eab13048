package dialogue

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Picker chooses a template index. *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

const fallbackReply = "Could you tell me a bit more about what you need?"

// Composer turns a classification and the current context into reply text.
type Composer struct {
	persona *Persona
	calc    *Calculator
	picker  Picker
}

// NewComposer builds a composer for persona.
func NewComposer(persona *Persona, calc *Calculator, picker Picker) *Composer {
	if persona == nil || picker == nil {
		panic("dialogue: composer requires a persona and a picker")
	}
	return &Composer{persona: persona, calc: calc, picker: picker}
}

// Compose selects a template and fills it from convo. Placeholders that cannot
// be resolved stay in the text as-is.
func (c *Composer) Compose(cls Classification, convo ConversationContext) string {
	p := c.persona
	response := c.pickTemplate(cls.Intent)

	if rule, ok := p.followUpFor(cls.Intent, convo); ok {
		response += " " + rule.Text
	}
	if cls.Intent == IntentOrderTracking && convo.OrderNumber != "" && p.OrderAcknowledgement != "" {
		response += " " + p.OrderAcknowledgement
	}

	values := c.placeholderValues(convo)
	if slices.Contains(p.PricingIntents, cls.Intent) {
		response += c.priceCommentary(convo, values)
	}

	response = fillPlaceholders(response, values)

	if p.Machine != nil && p.Machine.Escalated(convo) && p.EscalationNotice != "" {
		response = p.EscalationNotice + " " + response
	}
	return response
}

func (c *Composer) pickTemplate(intent string) string {
	templates := c.persona.Templates[intent]
	if len(templates) == 0 {
		templates = c.persona.Templates[DefaultIntent]
	}
	if len(templates) == 0 {
		return fallbackReply
	}
	return templates[c.picker.Intn(len(templates))]
}

// priceCommentary compares the proposed price against the fair rate or the
// buyer budget. It also records [CALCULATED_PRICE] and [COUNTER_OFFER].
func (c *Composer) priceCommentary(convo ConversationContext, values map[string]string) string {
	cur := c.persona.Currency
	if quote, ok := c.calc.Calculate(convo.Metrics()); ok {
		fair := float64(quote.Price)
		values["[CALCULATED_PRICE]"] = FormatAmount(cur, fair)
		if convo.ProposedPrice == nil {
			return ""
		}
		return compareToFair(cur, *convo.ProposedPrice, fair)
	}

	if convo.ProposedPrice == nil || convo.ServiceType == "" {
		return ""
	}
	if _, ok := c.calc.Budget(convo.ServiceType); !ok {
		return ""
	}
	proposed := *convo.ProposedPrice
	if offer, ok := c.calc.CounterOffer(proposed, convo.ServiceType); ok {
		values["[COUNTER_OFFER]"] = FormatAmount(cur, offer)
		return " Your quote of " + FormatAmount(cur, proposed) + " for " + titleCase(convo.ServiceType) +
			" is above our preferred budget. We can offer " + FormatAmount(cur, offer) + "."
	}
	return " Your quote of " + FormatAmount(cur, proposed) + " for " + titleCase(convo.ServiceType) +
		" fits within our budget."
}

func compareToFair(cur string, proposed, fair float64) string {
	quoted := FormatAmount(cur, proposed)
	fairText := FormatAmount(cur, fair)
	switch {
	case proposed > fair*1.5:
		return " Your quote of " + quoted + " is significantly higher than our calculated fair rate of " +
			fairText + " based on industry standards for your metrics."
	case proposed > fair*1.2:
		return " Your quote of " + quoted + " is above our calculated rate of " + fairText +
			". Can we meet somewhere in the middle?"
	case proposed < fair*0.8:
		return " Your rate of " + quoted + " is actually below our calculated fair rate of " + fairText +
			". We're happy to pay the fair market rate!"
	default:
		return " Your quote of " + quoted + " aligns well with our calculated fair rate of " + fairText + "."
	}
}

func (c *Composer) placeholderValues(convo ConversationContext) map[string]string {
	cur := c.persona.Currency
	values := make(map[string]string)
	if convo.Platform != "" {
		values["[PLATFORM]"] = titleCase(convo.Platform)
	}
	if convo.Followers != nil {
		values["[FOLLOWERS]"] = FormatCount(*convo.Followers)
		if tier, ok := c.calc.TierFor(*convo.Followers, convo.Platform, convo.ContentType); ok {
			values["[TIER]"] = tier.Name
			values["[BUDGET_RANGE]"] = FormatAmount(cur, tier.MinRate) + "-" + FormatAmount(cur, tier.MaxRate)
		}
	}
	if convo.Niche != "" {
		values["[NICHE]"] = convo.Niche
	}
	if convo.Engagement != "" {
		values["[ENGAGEMENT]"] = convo.Engagement
	}
	if convo.Demographics != "" {
		values["[DEMOGRAPHICS]"] = strings.ReplaceAll(convo.Demographics, "_", " ")
	}
	if convo.OrderNumber != "" {
		values["[ORDER_NUMBER]"] = convo.OrderNumber
	}
	if convo.ServiceType != "" {
		values["[SERVICE]"] = titleCase(convo.ServiceType)
		if b, ok := c.calc.Budget(convo.ServiceType); ok {
			values["[BUDGET_RANGE]"] = FormatAmount(cur, b.Preferred) + "-" + FormatAmount(cur, b.Max)
		}
	}
	if convo.ProposedPrice != nil {
		values["[PROPOSED_PRICE]"] = FormatAmount(cur, *convo.ProposedPrice)
	}
	return values
}

func fillPlaceholders(text string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(text, "[") {
		return text
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Casers keep state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
