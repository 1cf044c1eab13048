package dialogue

// StateMachine advances the persona-specific escalation or negotiation state
// after the context has absorbed a turn.
type StateMachine interface {
	Advance(c *ConversationContext, cls Classification)
	// Escalated reports whether replies should carry the escalation clause.
	Escalated(c ConversationContext) bool
	Variant() string
}

// Intents the negotiation machine reacts to.
const (
	IntentAgreement              = "agreement"
	IntentNegotiation            = "negotiation"
	IntentPriceQuote             = "price_quote"
	IntentServiceOffering        = "service_offering"
	IntentInfluencerIntroduction = "influencer_introduction"
	IntentOrderTracking          = "order_tracking"
	IntentGreeting               = "greeting"
)

// EscalationMachine counts sustained negative sentiment.
type EscalationMachine struct {
	Threshold int
}

func (m EscalationMachine) Variant() string { return "escalation" }

// Advance increments on negative sentiment and otherwise decays toward zero.
func (m EscalationMachine) Advance(c *ConversationContext, _ Classification) {
	if c.Sentiment == SentimentNegative {
		c.EscalationLevel++
		return
	}
	if c.EscalationLevel > 0 {
		c.EscalationLevel--
	}
}

func (m EscalationMachine) Escalated(c ConversationContext) bool {
	return c.EscalationLevel > m.Threshold
}

// NegotiationMachine overwrites the stage from the classified intent. There is
// no guard against moving backwards.
type NegotiationMachine struct {
	// CounterOfferLimit triggers the manager referral once exceeded; zero
	// disables it.
	CounterOfferLimit int
	// TrackProfile advances ConversationStage as profile details arrive.
	TrackProfile bool
}

func (m NegotiationMachine) Variant() string { return "negotiation" }

func (m NegotiationMachine) Advance(c *ConversationContext, cls Classification) {
	switch cls.Intent {
	case IntentAgreement:
		c.NegotiationStage = StageFinalizing
	case IntentNegotiation, IntentPriceQuote:
		c.NegotiationStage = StageNegotiating
		c.CounterOfferCount++
	case IntentServiceOffering, IntentInfluencerIntroduction:
		c.NegotiationStage = StageDiscussing
	}
	if m.TrackProfile {
		advanceProfileStage(c)
	}
}

func (m NegotiationMachine) Escalated(c ConversationContext) bool {
	return m.CounterOfferLimit > 0 && c.CounterOfferCount > m.CounterOfferLimit
}

// advanceProfileStage moves at most one step per turn.
func advanceProfileStage(c *ConversationContext) {
	switch {
	case c.Platform != "" && c.ConversationStage == ConversationGreeting:
		c.ConversationStage = ConversationPlatformSelected
	case c.Followers != nil && c.ConversationStage == ConversationPlatformSelected:
		c.ConversationStage = ConversationFollowersAsked
	case c.Engagement != "" && c.ConversationStage == ConversationFollowersAsked:
		c.ConversationStage = ConversationEngagementAsked
	case c.ProposedPrice != nil || (c.Niche != "" && c.ConversationStage == ConversationEngagementAsked):
		c.ConversationStage = ConversationPricing
	}
}

// Tracker applies the per-turn context update rules in their fixed order.
type Tracker struct {
	sentiment *SentimentAnalyzer
	extractor *Extractor
	machine   StateMachine
}

// NewTracker wires the update pipeline.
func NewTracker(sentiment *SentimentAnalyzer, extractor *Extractor, machine StateMachine) *Tracker {
	if sentiment == nil || extractor == nil || machine == nil {
		panic("dialogue: tracker dependencies cannot be nil")
	}
	return &Tracker{sentiment: sentiment, extractor: extractor, machine: machine}
}

// Update mutates c and returns the entities found in message.
func (t *Tracker) Update(c *ConversationContext, message string, cls Classification) Entities {
	c.LastTopic = cls.Intent
	c.Sentiment = t.sentiment.Analyze(message)
	found := t.extractor.Extract(message)
	found.Apply(c)
	t.machine.Advance(c, cls)
	return found
}
