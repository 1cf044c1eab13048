package dialogue

// ProcurementPersona buys services from vendors against fixed budgets.
const ProcurementPersona = "procurement"

// ProcurementBudgets are the buyer's preferred and ceiling prices in dollars.
func ProcurementBudgets() []ServiceBudget {
	return []ServiceBudget{
		{Service: "web development", Preferred: 5_000, Max: 8_000},
		{Service: "mobile app", Preferred: 12_000, Max: 20_000},
		{Service: "graphic design", Preferred: 1_500, Max: 2_500},
		{Service: "content writing", Preferred: 800, Max: 1_200},
		{Service: "digital marketing", Preferred: 3_000, Max: 5_000},
		{Service: "video production", Preferred: 4_000, Max: 7_000},
		{Service: "consulting", Preferred: 2_000, Max: 3_500},
	}
}

// Procurement returns the service-procurement negotiator.
func Procurement() *Persona {
	budgets := ProcurementBudgets()
	services := make([]string, len(budgets))
	for i, b := range budgets {
		services[i] = b.Service
	}
	return &Persona{
		Name:     ProcurementPersona,
		Title:    "Service Procurement Assistant",
		Currency: "$",
		Instructions: "You are a procurement assistant negotiating service contracts with vendors on behalf of the company. " +
			"Understand the service offered, compare quotes against the budget and counter politely when a quote is too high. " +
			"Keep responses under 50 words in paragraph format and ask at most one follow-up question. Show prices in US dollars.",
		Greeting: "Hello! I handle vendor partnerships for our company. What service would you like to offer us?",
		Catalog: MustCatalog(
			IntentDefinition{
				ID: IntentServiceOffering,
				Keywords: []string{"offer", "provide", "service", "services", "agency", "freelancer", "we do",
					"we build", "portfolio"},
				Patterns: patterns(`we\s*(offer|provide)`, `i\s*(offer|provide)`, `our\s*services?`),
			},
			IntentDefinition{
				ID:       IntentPriceQuote,
				Keywords: []string{"price", "cost", "quote", "rate", "fee", "charge", "estimate", "total"},
				Patterns: patterns(`\$\s*\d+`, `\d+\s*dollars?`, `my\s*rate`, `i\s*charge`, `we\s*charge`),
			},
			IntentDefinition{
				ID:       IntentNegotiation,
				Keywords: []string{"negotiate", "flexible", "discount", "lower", "counter", "meet in the middle", "budget"},
				Patterns: patterns(`open\s*to\s*negotiation`, `can\s*we\s*discuss`, `best\s*price`, `meet\s*(you\s*)?in\s*the\s*middle`),
			},
			IntentDefinition{
				ID:       "timeline",
				Keywords: []string{"timeline", "deadline", "deliver", "weeks", "days", "schedule", "turnaround"},
				Patterns: patterns(`\d+\s*(days?|weeks?|months?)`, `by\s*next\s*(week|month)`),
			},
			IntentDefinition{
				ID:       "quality_assurance",
				Keywords: []string{"quality", "revisions", "guarantee", "warranty", "support", "maintenance"},
				Patterns: patterns(`unlimited\s*revisions`, `money\s*back`, `post[-\s]*launch\s*support`),
			},
			IntentDefinition{
				ID:       IntentAgreement,
				Keywords: []string{"agree", "accept", "deal", "yes", "sounds good", "let's do it", "proceed"},
				Patterns: patterns(`i\s*agree`, `sounds?\s*good`, `let'?s\s*do`, `deal`),
			},
			IntentDefinition{
				ID:       "rejection",
				Keywords: []string{"no", "decline", "too low", "not enough", "can't accept", "not possible"},
				Patterns: patterns(`too\s*low`, `can'?t\s*(accept|go\s*lower)`, `not\s*possible`),
			},
			IntentDefinition{
				ID:       IntentGreeting,
				Keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"},
				Patterns: patterns(`^(hi|hello|hey)`),
			},
		),
		Templates: map[string][]string{
			IntentServiceOffering: {
				"Thanks for reaching out about [SERVICE]. Could you share your pricing and what's included?",
				"We're always looking for reliable partners for [SERVICE]. What would a typical project cost with you?",
				"Great, [SERVICE] is on our list for this quarter. Can you walk me through your rates?",
			},
			IntentPriceQuote: {
				"Thanks for the quote of [PROPOSED_PRICE] for [SERVICE].",
				"I appreciate the pricing details. Our budget for [SERVICE] is [BUDGET_RANGE].",
				"Thank you for sharing your rates for [SERVICE].",
			},
			IntentNegotiation: {
				"I appreciate your flexibility. Our budget range for [SERVICE] is [BUDGET_RANGE].",
				"Thanks for being open to discussion. We'd like to land within [BUDGET_RANGE] for [SERVICE].",
				"Let's find a number that works for both of us.",
			},
			"timeline": {
				"That timeline works for planning. Could you confirm the final price so we can lock it in?",
				"Thanks for the schedule. Are there milestones we should tie payments to?",
				"Good to know. Would a faster turnaround change the price?",
			},
			"quality_assurance": {
				"Quality matters a lot to us. How many revision rounds are included in your quote?",
				"Thanks for the details on support. Is maintenance included or billed separately?",
				"That's reassuring. Do you offer any guarantee if deliverables miss the brief?",
			},
			IntentAgreement: {
				"Excellent! I'll prepare the purchase order and send over the contract today.",
				"Great, we have a deal. Our team will follow up with onboarding details shortly.",
				"Perfect! I'll get the paperwork started and share next steps within 24 hours.",
			},
			"rejection": {
				"I understand. Our budget is fixed for this project, but we'll keep your details for future work.",
				"No problem. If anything changes on your side, we'd be happy to revisit.",
				"That's fine. Thanks for your time, and we'll reach out if a larger budget opens up.",
			},
			IntentGreeting: {
				"Hello! I handle vendor partnerships for our company. What service would you like to offer?",
				"Hi there! Are you a service provider interested in working with us?",
				"Good day! Tell me about the services you provide and we'll see if there's a fit.",
			},
			DefaultIntent: {
				"Could you tell me more about the service you're offering and your pricing?",
				"To see if we're a fit, what service do you provide and what would it cost?",
				"Let me make sure I understand. Which service are you proposing, and at what rate?",
			},
		},
		Lexicon: Lexicon{
			Positive: []string{"great", "excellent", "happy", "glad", "perfect", "fair", "reasonable", "excited"},
			Negative: []string{"too low", "unfair", "unreasonable", "disappointed", "frustrated", "insulting", "ridiculous"},
		},
		Machine:          NegotiationMachine{CounterOfferLimit: 3},
		Entities:         []EntityKind{EntityPrice, EntityServiceType},
		Services:         services,
		Budgets:          budgets,
		PricingIntents:   []string{IntentPriceQuote, IntentNegotiation},
		EscalationNotice: "We've gone back and forth a few times, so I'll loop in our procurement manager to finalize terms.",
		FollowUps: []FollowUpRule{
			{
				Intents: []string{IntentServiceOffering, IntentGreeting},
				Missing: []EntityKind{EntityServiceType},
				Text:    "Which service are you offering?",
			},
			{
				Intents: []string{IntentPriceQuote, IntentNegotiation},
				Missing: []EntityKind{EntityServiceType},
				Text:    "Which service does that price cover?",
			},
		},
		QuickActions: map[string][]QuickAction{
			"default": {
				{Label: "Offer Web Development", Message: "We offer web development services"},
				{Label: "Quote Price", Message: "Our price is $6,500 for web development"},
				{Label: "Negotiate", Message: "Can we discuss the budget?"},
				{Label: "Accept", Message: "Sounds good, let's do it"},
			},
		},
	}
}
