package dialogue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedPicker int

func (p fixedPicker) Intn(n int) int { return int(p) % n }

func newComposer(p *Persona) *Composer {
	return NewComposer(p, p.Calculator(), fixedPicker(0))
}

func floatPtr(v float64) *float64 { return &v }

func TestCompose_FairPriceComparison(t *testing.T) {
	p := Influencer()
	composer := newComposer(p)

	base := NewConversationContext()
	base.Platform = "instagram"
	base.ContentType = "posts"
	base.Followers = floatPtr(30_000)
	base.Engagement = "6%"
	base.Niche = "tech"

	tests := []struct {
		name     string
		proposed float64
		want     string
	}{
		{"significantly higher", 50_000, "Your quote of ₹50,000 is significantly higher than our calculated fair rate of ₹31,625 based on industry standards for your metrics."},
		{"above", 40_000, "Your quote of ₹40,000 is above our calculated rate of ₹31,625. Can we meet somewhere in the middle?"},
		{"below", 20_000, "Your rate of ₹20,000 is actually below our calculated fair rate of ₹31,625. We're happy to pay the fair market rate!"},
		{"aligned", 30_000, "Your quote of ₹30,000 aligns well with our calculated fair rate of ₹31,625."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			convo := base.Clone()
			convo.ProposedPrice = floatPtr(tt.proposed)

			got := composer.Compose(Classification{Intent: IntentNegotiation}, convo)

			assert.True(t, strings.HasPrefix(got, "I appreciate your flexibility! Based on your metrics, we can offer ₹31,625."), got)
			assert.True(t, strings.HasSuffix(got, " "+tt.want), got)
		})
	}
}

func TestCompose_NoComparisonWithoutFairPrice(t *testing.T) {
	composer := newComposer(Influencer())
	convo := NewConversationContext()
	convo.ProposedPrice = floatPtr(25_000)

	got := composer.Compose(Classification{Intent: IntentNegotiation}, convo)

	assert.Contains(t, got, "[CALCULATED_PRICE]", "unresolved placeholders stay literal")
	assert.NotContains(t, got, "Your quote")
}

func TestCompose_FollowUps(t *testing.T) {
	composer := newComposer(Influencer())

	convo := NewConversationContext()
	convo.Platform = "youtube"
	got := composer.Compose(Classification{Intent: "platform_mention"}, convo)
	assert.True(t, strings.HasSuffix(got, "How many followers do you have on Youtube?"), got)

	convo.Followers = floatPtr(120_000)
	got = composer.Compose(Classification{Intent: "platform_mention"}, convo)
	assert.True(t, strings.HasSuffix(got, "What are your usual rates for sponsored content?"), got)

	got = composer.Compose(Classification{Intent: "follower_count"}, convo)
	assert.Equal(t, "Thanks for sharing your follower count! That puts you in the macro influencer category. "+
		"What's your typical engagement rate with your audience? What's your typical engagement rate?", got)

	got = composer.Compose(Classification{Intent: IntentPriceQuote}, convo)
	assert.NotContains(t, got, "usual rates")
}

func TestCompose_UnknownIntentUsesDefault(t *testing.T) {
	p := CustomerService()
	got := newComposer(p).Compose(Classification{Intent: "nope"}, NewConversationContext())

	assert.Equal(t, p.Templates[DefaultIntent][0], got)
}

func TestCompose_OrderAcknowledgementAndEscalation(t *testing.T) {
	p := CustomerService()
	composer := newComposer(p)

	convo := NewConversationContext()
	convo.OrderNumber = "12345"
	got := composer.Compose(Classification{Intent: IntentOrderTracking}, convo)
	assert.True(t, strings.HasSuffix(got, "I can see you mentioned order #12345. Let me look that up for you."), got)

	convo.EscalationLevel = 3
	got = composer.Compose(Classification{Intent: IntentOrderTracking}, convo)
	assert.True(t, strings.HasPrefix(got, customerServiceEscalation+" "), got)

	convo.EscalationLevel = 2
	got = composer.Compose(Classification{Intent: IntentOrderTracking}, convo)
	assert.False(t, strings.HasPrefix(got, customerServiceEscalation), got)
}

func TestCompose_ProcurementCounterOffer(t *testing.T) {
	composer := newComposer(Procurement())

	convo := NewConversationContext()
	convo.ServiceType = "web development"
	convo.ProposedPrice = floatPtr(6_500)
	got := composer.Compose(Classification{Intent: IntentPriceQuote}, convo)
	assert.Equal(t, "Thanks for the quote of $6,500 for Web Development. "+
		"Your quote of $6,500 for Web Development is above our preferred budget. We can offer $5,750.", got)

	convo.ProposedPrice = floatPtr(4_000)
	got = composer.Compose(Classification{Intent: IntentPriceQuote}, convo)
	assert.True(t, strings.HasSuffix(got, "Your quote of $4,000 for Web Development fits within our budget."), got)
}

func TestCompose_ProcurementManagerReferral(t *testing.T) {
	p := Procurement()
	composer := newComposer(p)

	convo := NewConversationContext()
	convo.CounterOfferCount = 4
	got := composer.Compose(Classification{Intent: IntentGreeting}, convo)

	assert.True(t, strings.HasPrefix(got, p.EscalationNotice+" "), got)
	assert.True(t, strings.HasSuffix(got, "Which service are you offering?"), got)
}
