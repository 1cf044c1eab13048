package dialogue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscalationMachine_NeverNegative(t *testing.T) {
	m := EscalationMachine{Threshold: 2}
	rng := rand.New(rand.NewSource(7))
	sentiments := []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

	convo := NewConversationContext()
	for i := 0; i < 500; i++ {
		convo.Sentiment = sentiments[rng.Intn(len(sentiments))]
		m.Advance(&convo, Classification{})
		assert.GreaterOrEqual(t, convo.EscalationLevel, 0)
	}
}

func TestEscalationMachine_Threshold(t *testing.T) {
	m := EscalationMachine{Threshold: 2}
	convo := NewConversationContext()

	convo.Sentiment = SentimentNegative
	for i := 0; i < 3; i++ {
		assert.False(t, m.Escalated(convo), "level %d", convo.EscalationLevel)
		m.Advance(&convo, Classification{})
	}
	assert.Equal(t, 3, convo.EscalationLevel)
	assert.True(t, m.Escalated(convo))

	convo.Sentiment = SentimentNeutral
	m.Advance(&convo, Classification{})
	assert.False(t, m.Escalated(convo))
}

func TestNegotiationMachine_StageOverwrites(t *testing.T) {
	m := NegotiationMachine{}
	convo := NewConversationContext()

	steps := []struct {
		intent  string
		stage   NegotiationStage
		counter int
	}{
		{IntentGreeting, StageInitial, 0},
		{IntentInfluencerIntroduction, StageDiscussing, 0},
		{IntentPriceQuote, StageNegotiating, 1},
		{IntentAgreement, StageFinalizing, 1},
		{IntentNegotiation, StageNegotiating, 2},
		{"rejection", StageNegotiating, 2},
		{IntentServiceOffering, StageDiscussing, 2},
	}
	for _, step := range steps {
		m.Advance(&convo, Classification{Intent: step.intent})
		assert.Equal(t, step.stage, convo.NegotiationStage, "after %s", step.intent)
		assert.Equal(t, step.counter, convo.CounterOfferCount, "after %s", step.intent)
	}
}

func TestNegotiationMachine_CounterOfferLimit(t *testing.T) {
	m := NegotiationMachine{CounterOfferLimit: 2}
	convo := NewConversationContext()

	for i := 0; i < 2; i++ {
		m.Advance(&convo, Classification{Intent: IntentNegotiation})
	}
	assert.False(t, m.Escalated(convo))
	m.Advance(&convo, Classification{Intent: IntentPriceQuote})
	assert.True(t, m.Escalated(convo))

	assert.False(t, NegotiationMachine{}.Escalated(convo), "zero limit disables referral")
}

func TestNegotiationMachine_ProfileStage(t *testing.T) {
	m := NegotiationMachine{TrackProfile: true}
	convo := NewConversationContext()
	followers := 20_000.0

	convo.Platform = "instagram"
	convo.Followers = &followers
	m.Advance(&convo, Classification{Intent: "platform_mention"})
	assert.Equal(t, ConversationPlatformSelected, convo.ConversationStage, "one step per turn")

	m.Advance(&convo, Classification{Intent: "follower_count"})
	assert.Equal(t, ConversationFollowersAsked, convo.ConversationStage)

	convo.Engagement = "5%"
	m.Advance(&convo, Classification{Intent: "engagement_metrics"})
	assert.Equal(t, ConversationEngagementAsked, convo.ConversationStage)

	convo.Niche = "fitness"
	m.Advance(&convo, Classification{Intent: "niche_content"})
	assert.Equal(t, ConversationPricing, convo.ConversationStage)
}

func TestTracker_UpdateOrder(t *testing.T) {
	p := CustomerService()
	tracker := NewTracker(NewSentimentAnalyzer(p.Lexicon), p.Extractor(), p.Machine)
	convo := NewConversationContext()

	found := tracker.Update(&convo, "I'm upset, order #991 never came", Classification{Intent: IntentOrderTracking})

	assert.Equal(t, IntentOrderTracking, convo.LastTopic)
	assert.Equal(t, SentimentNegative, convo.Sentiment)
	assert.Equal(t, "991", convo.OrderNumber)
	assert.Equal(t, "991", found.OrderNumber)
	assert.Equal(t, 1, convo.EscalationLevel)
}
