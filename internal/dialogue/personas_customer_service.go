package dialogue

// CustomerServicePersona is the support-desk bot.
const CustomerServicePersona = "customer_service"

const customerServiceEscalation = "I understand this situation is very frustrating for you. " +
	"Let me connect you with a senior specialist who can provide more personalized assistance."

// CustomerService returns the order, returns and billing support persona.
func CustomerService() *Persona {
	return &Persona{
		Name:  CustomerServicePersona,
		Title: "AI Customer Support",
		Instructions: "You are a friendly AI customer service assistant for an online store. " +
			"Help with orders, returns, technical issues and billing. " +
			"Keep responses under 50 words in paragraph format and ask at most one follow-up question.",
		Greeting: "Hello! I'm your AI customer service assistant. I can help with orders, returns, " +
			"technical issues and billing. How can I help you today?",
		Catalog: MustCatalog(
			IntentDefinition{
				ID:       IntentOrderTracking,
				Keywords: []string{"track", "order", "shipment", "delivery", "status", "where is", "when will"},
				Patterns: patterns(`order\s*#?\s*\d+`, `tracking\s*number`, `shipped`),
			},
			IntentDefinition{
				ID:       "returns",
				Keywords: []string{"return", "refund", "exchange", "defective", "wrong item", "damaged"},
				Patterns: patterns(`return\s*policy`, `money\s*back`, `exchange`),
			},
			IntentDefinition{
				ID:       "technical_support",
				Keywords: []string{"technical", "support", "bug", "error", "not working", "broken", "fix"},
				Patterns: patterns(`tech\s*support`, `doesn't\s*work`, `error\s*\d+`),
			},
			IntentDefinition{
				ID:       "billing",
				Keywords: []string{"billing", "payment", "charge", "invoice", "credit card", "subscription"},
				Patterns: patterns(`billed`, `charged`, `payment\s*failed`),
			},
			IntentDefinition{
				ID:       "product_info",
				Keywords: []string{"product", "item", "specifications", "features", "compatibility", "size"},
				Patterns: patterns(`tell\s*me\s*about`, `what\s*is`, `how\s*does`),
			},
			IntentDefinition{
				ID:       IntentGreeting,
				Keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"},
				Patterns: patterns(`^(hi|hello|hey)`),
			},
			IntentDefinition{
				ID:       "complaint",
				Keywords: []string{"angry", "frustrated", "terrible", "awful", "worst", "disappointed", "upset"},
				Patterns: patterns(`this\s*is\s*ridiculous`, `fed\s*up`, `unacceptable`),
			},
		),
		Templates: map[string][]string{
			IntentOrderTracking: {
				"I'd be happy to help you track your order! Could you please provide your order number? It usually starts with # followed by 6-8 digits.",
				"To track your order, I'll need your order number or the email address used for the purchase. Do you have that information handy?",
				"Let me help you find your order status. Please share your order number, and I'll look it up for you right away.",
			},
			"returns": {
				"I can definitely help with returns! Our return policy allows returns within 30 days of purchase. What item would you like to return and what's the reason?",
				"No problem with processing your return. Could you tell me more about the item and why you'd like to return it? I'll guide you through the process.",
				"I'll be glad to assist with your return. What's the order number and which item needs to be returned?",
			},
			"technical_support": {
				"I'm here to help resolve your technical issue. Can you describe what specific problem you're experiencing? The more details you provide, the better I can assist you.",
				"Let's troubleshoot this together! What device or service are you having trouble with, and what exactly is happening?",
				"Technical issues can be frustrating, but I'm confident we can solve this. Please describe the problem and any error messages you're seeing.",
			},
			"billing": {
				"I can help clarify any billing questions you have. Are you asking about a specific charge, payment method, or subscription details?",
				"Let me assist you with your billing inquiry. Could you provide more details about what you're seeing on your account or statement?",
				"I'm here to help resolve billing concerns. What specific billing issue can I help you with today?",
			},
			"product_info": {
				"I'd be happy to provide product information! Which specific product are you interested in learning more about?",
				"What product would you like to know more about? I can share details about features, specifications, and compatibility.",
				"I can provide detailed product information. What specific product or feature are you curious about?",
			},
			IntentGreeting: {
				"Hello! Great to see you today. I'm your AI customer service assistant, ready to help with any questions or concerns you might have.",
				"Hi there! Welcome to our customer support. I'm here to assist you with orders, returns, technical issues, or any other questions.",
				"Hello! I'm your dedicated AI assistant for customer service. How can I make your day better?",
			},
			"complaint": {
				"I sincerely apologize for the frustrating experience you've had. I understand how disappointing this must be, and I'm here to make things right. Let me know exactly what happened so I can help resolve this immediately.",
				"I'm truly sorry you're having such a negative experience. Your frustration is completely understandable, and I want to turn this around for you. Please tell me what's gone wrong so I can fix it right away.",
				"I can hear how upset you are, and I don't blame you. Let me personally ensure we resolve this issue today. What specifically has caused this problem?",
			},
			DefaultIntent: {
				"I want to make sure I help you with exactly what you need. Could you provide a bit more detail about your question or concern?",
				"I'm here to assist you! Could you elaborate on what you're looking for help with today?",
				"I'd love to help you out. Can you give me some more information about what you need assistance with?",
			},
		},
		Lexicon: Lexicon{
			Positive: []string{"good", "great", "excellent", "love", "perfect", "amazing", "wonderful", "happy", "satisfied"},
			Negative: []string{"bad", "terrible", "awful", "hate", "horrible", "frustrated", "angry", "disappointed", "upset", "annoyed"},
		},
		Machine:              EscalationMachine{Threshold: 2},
		Entities:             []EntityKind{EntityOrderNumber},
		OrderAcknowledgement: "I can see you mentioned order #[ORDER_NUMBER]. Let me look that up for you.",
		EscalationNotice:     customerServiceEscalation,
		QuickActions: map[string][]QuickAction{
			"default": {
				{Label: "Track Order", Message: "Track my order"},
				{Label: "Returns", Message: "Return policy"},
				{Label: "Tech Support", Message: "Technical support"},
				{Label: "Billing", Message: "Billing question"},
			},
		},
	}
}
