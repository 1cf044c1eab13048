package dialogue

// InfluencerPersona negotiates sponsored content rates with creators.
const InfluencerPersona = "influencer"

// followerBrackets are shared by every rate card row: nano, micro, macro, mega.
var followerBrackets = [4][2]float64{
	{1_000, 10_000},
	{10_000, 50_000},
	{50_000, 200_000},
	{200_000, 1_000_000},
}

var tierNames = [4]string{"nano", "micro", "macro", "mega"}

// bracketTiers pairs min/max rates with the standard follower brackets.
func bracketTiers(rates [4][2]float64) []Tier {
	out := make([]Tier, len(rates))
	for i, r := range rates {
		out[i] = Tier{
			Name:          tierNames[i],
			MinRate:       r[0],
			MaxRate:       r[1],
			FollowerLower: followerBrackets[i][0],
			FollowerUpper: followerBrackets[i][1],
		}
	}
	return out
}

// InfluencerPricing is the rupee rate card for sponsored creator content.
func InfluencerPricing() PricingTable {
	instagram := [4][2]float64{{3_000, 6_000}, {15_000, 35_000}, {40_000, 150_000}, {200_000, 500_000}}
	facebook := [4][2]float64{{2_000, 5_000}, {10_000, 25_000}, {30_000, 100_000}, {120_000, 300_000}}
	return PricingTable{Platforms: []PlatformPricing{
		{
			Platform:           "instagram",
			DefaultContentType: "posts",
			ContentTypes: []ContentPricing{
				{Type: "reels", Tiers: bracketTiers(instagram)},
				{Type: "posts", Tiers: bracketTiers(instagram)},
			},
		},
		{
			Platform:           "youtube",
			DefaultContentType: "videos",
			ContentTypes: []ContentPricing{
				{Type: "shorts", Tiers: bracketTiers([4][2]float64{{4_000, 8_000}, {15_000, 40_000}, {50_000, 200_000}, {250_000, 600_000}})},
				{Type: "videos", Tiers: bracketTiers([4][2]float64{{10_000, 15_000}, {30_000, 70_000}, {80_000, 300_000}, {400_000, 1_000_000}})},
			},
		},
		{
			Platform:           "facebook",
			DefaultContentType: "posts",
			ContentTypes: []ContentPricing{
				{Type: "posts", Tiers: bracketTiers(facebook)},
				{Type: "reels", Tiers: bracketTiers(facebook)},
			},
		},
	}}
}

// Influencer returns the creator partnership negotiator.
func Influencer() *Persona {
	return &Persona{
		Name:     InfluencerPersona,
		Title:    "Influencer Partnership Assistant",
		Currency: "₹",
		Instructions: "You are PrimaSpot's AI influencer partnership assistant. Your role is to negotiate with " +
			"influencers professionally, gather their metrics (followers, engagement, niche, platform), calculate " +
			"fair pricing, and maintain a friendly business-focused tone.\n\n" +
			"CRITICAL: Always respond in SHORT PARAGRAPHS (maximum 50 words). Never use bullet points or numbered " +
			"lists. Write conversationally and focus on one main point per response. Ask only one follow-up question " +
			"if needed. Show prices in Indian Rupees (₹) and be willing to negotiate within reasonable ranges.",
		Greeting: "Hello! Welcome to our influencer partnership program. Which platform do you create content on?",
		Catalog: MustCatalog(
			IntentDefinition{
				ID: IntentInfluencerIntroduction,
				Keywords: []string{"influencer", "creator", "content creator", "blogger", "youtuber",
					"instagrammer", "tiktoker", "my name is", "i'm", "i am"},
				Patterns: patterns(`i'?m\s*an?\s*(influencer|creator)`, `my\s*name\s*is`, `i\s*create\s*content`),
			},
			IntentDefinition{
				ID: "platform_mention",
				Keywords: []string{"instagram", "youtube", "tiktok", "twitter", "facebook", "linkedin",
					"snapchat", "twitch", "platform"},
				Patterns: patterns(`on\s*(instagram|youtube|tiktok|twitter)`, `my\s*(instagram|youtube|tiktok)`),
			},
			IntentDefinition{
				ID: "follower_count",
				Keywords: []string{"followers", "subscribers", "audience", "reach", "views", "thousand",
					"million", "k followers", "m followers"},
				Patterns: patterns(`\d+k?\s*followers?`, `\d+m\s*followers?`, `\d+\s*thousand`, `\d+\s*million`),
			},
			IntentDefinition{
				ID: "engagement_metrics",
				Keywords: []string{"engagement", "likes", "comments", "shares", "views", "engagement rate",
					"interaction", "active audience"},
				Patterns: patterns(`\d+%\s*engagement`, `engagement\s*rate`, `\d+\s*likes`),
			},
			IntentDefinition{
				ID: "demographics_info",
				Keywords: []string{"demographics", "audience", "age", "gender", "location", "female", "male",
					"18-24", "25-34", "millennials", "gen z"},
				Patterns: patterns(`\d+%\s*(female|male)`, `age\s*\d+-\d+`, `mostly\s*(female|male)`),
			},
			IntentDefinition{
				ID: "niche_content",
				Keywords: []string{"niche", "fashion", "beauty", "fitness", "tech", "gaming", "food", "travel",
					"lifestyle", "business", "education", "content about"},
				Patterns: patterns(`i\s*focus\s*on`, `content\s*about`, `specialize\s*in`),
			},
			IntentDefinition{
				ID: IntentPriceQuote,
				Keywords: []string{"price", "cost", "rate", "fee", "charge", "dollar", "payment", "per post",
					"per video", "campaign"},
				Patterns: patterns(`\$\d+`, `\d+\s*dollars?`, `my\s*rate`, `i\s*charge`),
			},
			IntentDefinition{
				ID: IntentNegotiation,
				Keywords: []string{"negotiate", "flexible", "discuss", "open to", "consider", "work with",
					"budget", "lower", "higher"},
				Patterns: patterns(`open\s*to\s*negotiation`, `flexible\s*on\s*price`, `can\s*we\s*discuss`),
			},
			IntentDefinition{
				ID: "collaboration_interest",
				Keywords: []string{"collaborate", "partnership", "work together", "interested", "campaign",
					"brand deal", "sponsorship"},
				Patterns: patterns(`interested\s*in\s*collaborating`, `work\s*together`, `brand\s*partnership`),
			},
			IntentDefinition{
				ID:       IntentAgreement,
				Keywords: []string{"agree", "accept", "deal", "yes", "sounds good", "let's do it", "proceed"},
				Patterns: patterns(`i\s*agree`, `sounds?\s*good`, `let'?s\s*do`, `deal`),
			},
			IntentDefinition{
				ID:       "rejection",
				Keywords: []string{"no", "decline", "too low", "not enough", "can't accept", "not interested"},
				Patterns: patterns(`too\s*low`, `not\s*enough`, `can'?t\s*accept`, `not\s*interested`),
			},
			IntentDefinition{
				ID:       IntentGreeting,
				Keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"},
				Patterns: patterns(`^(hi|hello|hey)`),
			},
		),
		Templates: map[string][]string{
			IntentInfluencerIntroduction: {
				"Great to meet you! We're always looking for talented creators to partner with. Could you tell me more about your platform and audience?",
				"Welcome! We'd love to learn more about your content and reach. What platform do you primarily create on, and what's your follower count?",
				"Excellent! We're interested in working with influencers like you. Can you share some details about your audience demographics and engagement rates?",
			},
			"platform_mention": {
				"Perfect! [PLATFORM] is one of our key marketing channels. How many followers do you have, and what type of content do you create?",
				"Great choice of platform! What's your follower count on [PLATFORM], and what's your typical engagement rate?",
				"[PLATFORM] is excellent for our campaigns. Could you share your audience size and demographics?",
			},
			"follower_count": {
				"Thanks for sharing your follower count! That puts you in the [TIER] influencer category. What's your typical engagement rate with your audience?",
				"Impressive reach! With [FOLLOWERS] followers, you're in our [TIER] tier. Can you tell me about your audience demographics?",
				"Great audience size! For [FOLLOWERS] followers, we typically work within a certain budget range. What are your usual rates?",
			},
			"engagement_metrics": {
				"Excellent engagement! High engagement rates are very valuable to us. Combined with your follower count, this looks promising for a partnership.",
				"That's a strong engagement rate! Quality engagement is often more important than just follower count. What demographics make up your audience?",
				"Great metrics! Your engagement rate shows you have an active, interested audience. Let's discuss campaign specifics and pricing.",
			},
			"demographics_info": {
				"Perfect! Your audience demographics align well with our target market. This could be a great fit for our campaign.",
				"Excellent demographics! That audience profile is exactly what we're looking for. Based on your metrics, here's what we typically offer...",
				"Those demographics are valuable for our brand. Your audience profile suggests we could have a successful partnership.",
			},
			"niche_content": {
				"Your niche is perfect for our brand! [NICHE] content creators often perform very well for our campaigns.",
				"Excellent specialization! We have several campaigns in the [NICHE] space that could be a great fit for your content style.",
				"That's a valuable niche! [NICHE] influencers typically see great results with our products. Let's discuss collaboration opportunities.",
			},
			IntentPriceQuote: {
				"Thank you for the quote. Based on your metrics - [FOLLOWERS] followers, [ENGAGEMENT] engagement, and [DEMOGRAPHICS] audience - let me calculate our offer...",
				"I appreciate the pricing information. For your tier and niche, our typical budget range is [BUDGET_RANGE]. Can we find a middle ground?",
				"Thanks for sharing your rates. Considering your platform, audience size, and engagement, here's what we can offer...",
			},
			IntentNegotiation: {
				"I appreciate your flexibility! Based on your metrics, we can offer [CALCULATED_PRICE]. This factors in your follower count, engagement rate, and audience demographics.",
				"Great that you're open to discussion! Our calculated offer based on your profile is [CALCULATED_PRICE]. What are your thoughts?",
				"Perfect! Let's work together on this. Considering all your metrics, we can offer [CALCULATED_PRICE] for the campaign.",
			},
			"collaboration_interest": {
				"Wonderful! We're excited about the possibility of working together. Let's discuss the campaign details and compensation.",
				"Excellent! Based on your profile, you'd be a great fit for our upcoming campaign. Here are the details...",
				"Perfect timing! We have a campaign that aligns perfectly with your content and audience. Let's talk specifics.",
			},
			IntentAgreement: {
				"Fantastic! I'm excited to move forward with this partnership. I'll prepare the campaign brief and contract details.",
				"Excellent! Welcome to our influencer network. I'll send you the campaign guidelines and next steps within 24 hours.",
				"Perfect! This is going to be a great collaboration. Let me get the paperwork started and send you the campaign details.",
			},
			"rejection": {
				"I understand. Our budget calculations are based on industry standards and your metrics. If you'd like to reconsider, we're here.",
				"No problem! We respect your pricing structure. We'll keep your profile for future campaigns with larger budgets.",
				"That's perfectly fine. We appreciate your time and will reach out if we have campaigns with higher budgets that match your rates.",
			},
			IntentGreeting: {
				"Hello! Welcome to our influencer partnership program. Are you a content creator looking to collaborate with brands?",
				"Hi there! I'm here to discuss potential influencer partnerships. What platform do you create content on?",
				"Good day! I represent our brand's influencer marketing team. We're always looking for talented creators to work with!",
			},
			DefaultIntent: {
				"I'd love to learn more about your influencer profile. Could you share details about your platform, followers, and content niche?",
				"To better understand how we can work together, could you tell me about your social media presence and audience?",
				"Let me make sure I understand your influencer profile correctly. What platform do you use and what's your audience like?",
			},
		},
		Lexicon: Lexicon{
			Positive: []string{"excited", "great", "excellent", "love", "perfect", "amazing", "wonderful", "happy",
				"interested", "fantastic", "awesome"},
			Negative: []string{"disappointed", "frustrated", "low", "not enough", "terrible", "awful", "upset",
				"annoyed", "unfair", "ridiculous"},
		},
		Machine: NegotiationMachine{TrackProfile: true},
		Entities: []EntityKind{
			EntityPrice, EntityFollowers, EntityEngagement, EntityPlatform,
			EntityContentType, EntityNiche, EntityDemographics,
		},
		Platforms: []string{"instagram", "youtube", "tiktok", "twitter", "facebook"},
		Niches: []string{"fashion", "beauty", "tech", "business", "fitness", "lifestyle", "food", "travel",
			"gaming", "education"},
		Pricing:          InfluencerPricing(),
		NicheMultipliers: DefaultNicheMultipliers,
		PricingIntents:   []string{IntentPriceQuote, IntentNegotiation},
		FollowUps: []FollowUpRule{
			{
				Intents: []string{"platform_mention"},
				Missing: []EntityKind{EntityFollowers},
				Text:    "How many followers do you have on [PLATFORM]?",
			},
			{
				Intents: []string{"follower_count"},
				Missing: []EntityKind{EntityEngagement},
				Text:    "What's your typical engagement rate?",
			},
			{
				Intents: []string{"engagement_metrics"},
				Missing: []EntityKind{EntityNiche},
				Text:    "What niche or category does your content focus on?",
			},
			{
				ExceptIntents: []string{IntentPriceQuote},
				Present:       []EntityKind{EntityFollowers, EntityPlatform},
				Missing:       []EntityKind{EntityPrice},
				Text:          "What are your usual rates for sponsored content?",
			},
		},
		QuickActions: influencerQuickActions(),
	}
}

func influencerQuickActions() map[string][]QuickAction {
	creators := []QuickAction{
		{Label: "Instagram Creator", Message: "I create content on Instagram"},
		{Label: "YouTube Creator", Message: "I create content on YouTube"},
		{Label: "Facebook Creator", Message: "I create content on Facebook"},
	}
	return map[string][]QuickAction{
		string(ConversationGreeting): append(append([]QuickAction(nil), creators...),
			QuickAction{Label: "TikTok Creator", Message: "I create content on TikTok"}),
		string(ConversationPlatformSelected) + ":instagram": {
			{Label: "Instagram Reels", Message: "I create Instagram reels"},
			{Label: "Instagram Posts", Message: "I create Instagram posts"},
			{Label: "Share Followers", Message: "I have followers on Instagram"},
			{Label: "Quote Rate", Message: "My rate is ₹25,000 per post"},
		},
		string(ConversationPlatformSelected) + ":youtube": {
			{Label: "YouTube Videos", Message: "I create YouTube videos"},
			{Label: "YouTube Shorts", Message: "I create YouTube shorts"},
			{Label: "Share Subscribers", Message: "I have subscribers on YouTube"},
			{Label: "Quote Rate", Message: "My rate is ₹50,000 per video"},
		},
		string(ConversationPlatformSelected) + ":facebook": {
			{Label: "Facebook Posts", Message: "I create Facebook posts"},
			{Label: "Facebook Reels", Message: "I create Facebook reels"},
			{Label: "Share Followers", Message: "I have followers on Facebook"},
			{Label: "Quote Rate", Message: "My rate is ₹15,000 per post"},
		},
		string(ConversationPlatformSelected): {
			{Label: "Share Followers", Message: "I have followers"},
			{Label: "Share Engagement", Message: "My engagement rate is"},
			{Label: "Share Niche", Message: "My content niche is"},
			{Label: "Quote Rate", Message: "My rate is"},
		},
		string(ConversationFollowersAsked): {
			{Label: "5% Engagement", Message: "My engagement rate is 5%"},
			{Label: "8% Engagement", Message: "My engagement rate is 8%"},
			{Label: "12% Engagement", Message: "My engagement rate is 12%"},
			{Label: "Share Niche", Message: "My content is about fashion"},
		},
		string(ConversationEngagementAsked): {
			{Label: "Fashion", Message: "My niche is fashion"},
			{Label: "Beauty", Message: "My niche is beauty"},
			{Label: "Tech", Message: "My niche is tech"},
			{Label: "Fitness", Message: "My niche is fitness"},
		},
		string(ConversationPricing): {
			{Label: "Accept Offer", Message: "I accept your offer"},
			{Label: "Negotiate", Message: "Can we negotiate the price?"},
			{Label: "Decline", Message: "The price is too low for me"},
			{Label: "More Details", Message: "Can you tell me more about the campaign?"},
		},
		"default": append(append([]QuickAction(nil), creators...),
			QuickAction{Label: "Quote Rate", Message: "My rate is ₹25,000 per post"}),
	}
}
