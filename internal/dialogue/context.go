package dialogue

// NegotiationStage is the coarse phase of a price negotiation.
type NegotiationStage string

const (
	StageInitial     NegotiationStage = "initial"
	StageDiscussing  NegotiationStage = "discussing"
	StageNegotiating NegotiationStage = "negotiating"
	StageFinalizing  NegotiationStage = "finalizing"
)

// ConversationStage tracks which profile details have been collected so far.
type ConversationStage string

const (
	ConversationGreeting         ConversationStage = "greeting"
	ConversationPlatformSelected ConversationStage = "platform_selected"
	ConversationFollowersAsked   ConversationStage = "followers_asked"
	ConversationEngagementAsked  ConversationStage = "engagement_asked"
	ConversationPricing          ConversationStage = "pricing"
)

// ConversationContext is the mutable per-session state. Only the owning
// Session mutates it; everything else sees copies.
type ConversationContext struct {
	LastTopic         string            `json:"last_topic,omitempty"`
	Sentiment         Sentiment         `json:"sentiment"`
	EscalationLevel   int               `json:"escalation_level"`
	NegotiationStage  NegotiationStage  `json:"negotiation_stage"`
	ConversationStage ConversationStage `json:"conversation_stage"`
	CounterOfferCount int               `json:"counter_offer_count"`

	OrderNumber   string   `json:"order_number,omitempty"`
	ProposedPrice *float64 `json:"proposed_price,omitempty"`
	Platform      string   `json:"platform,omitempty"`
	Followers     *float64 `json:"followers,omitempty"`
	Engagement    string   `json:"engagement,omitempty"`
	Niche         string   `json:"niche,omitempty"`
	ContentType   string   `json:"content_type,omitempty"`
	Demographics  string   `json:"demographics,omitempty"`
	ServiceType   string   `json:"service_type,omitempty"`
}

// NewConversationContext returns the initial state of a session.
func NewConversationContext() ConversationContext {
	return ConversationContext{
		Sentiment:         SentimentNeutral,
		NegotiationStage:  StageInitial,
		ConversationStage: ConversationGreeting,
	}
}

// Clone returns a deep copy.
func (c ConversationContext) Clone() ConversationContext {
	out := c
	out.ProposedPrice = cloneFloat(c.ProposedPrice)
	out.Followers = cloneFloat(c.Followers)
	return out
}

// FollowerCount returns the follower count or zero when unknown.
func (c ConversationContext) FollowerCount() float64 {
	if c.Followers == nil {
		return 0
	}
	return *c.Followers
}

// Metrics projects the context onto calculator input.
func (c ConversationContext) Metrics() Metrics {
	return Metrics{
		Followers:    c.FollowerCount(),
		Platform:     c.Platform,
		ContentType:  c.ContentType,
		Engagement:   c.Engagement,
		Demographics: c.Demographics,
		Niche:        c.Niche,
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
