package webchat

import (
	"time"

	"github.com/wolfman30/parley/internal/dialogue"
)

// OutboundMessage is what the chat client receives over the websocket.
type OutboundMessage struct {
	Type        string                 `json:"type"` // "session", "message", "typing", "history", "reset", "pong", "error"
	Text        string                 `json:"text,omitempty"`
	Role        string                 `json:"role,omitempty"` // "assistant" or "user"
	SessionID   string                 `json:"session_id,omitempty"`
	Persona     string                 `json:"persona,omitempty"`
	Intent      string                 `json:"intent,omitempty"`
	Confidence  float64                `json:"confidence,omitempty"`
	Source      dialogue.Source        `json:"source,omitempty"`
	Extracted   *dialogue.Entities     `json:"extracted,omitempty"`
	Suggestions []dialogue.QuickAction `json:"suggestions,omitempty"`
	Timestamp   string                 `json:"timestamp,omitempty"`
	Messages    []HistoryMessage       `json:"messages,omitempty"`
}

// InboundMessage is what the chat client sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "reset", "ping"
	Text string `json:"text"`
}

// HistoryMessage is a simplified message for history replays.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ReplyResponse is the REST body for a processed turn.
type ReplyResponse struct {
	SessionID string `json:"session_id"`
	dialogue.Reply
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string          `json:"session_id"`
	Persona   string          `json:"persona"`
	Title     string          `json:"title"`
	Greeting  *dialogue.Reply `json:"greeting,omitempty"`
}

// PersonaSummary describes one selectable persona.
type PersonaSummary struct {
	Name         string                 `json:"name"`
	Title        string                 `json:"title"`
	Currency     string                 `json:"currency,omitempty"`
	QuickActions []dialogue.QuickAction `json:"quick_actions,omitempty"`
}

func replyMessage(reply dialogue.Reply, at time.Time) OutboundMessage {
	msg := OutboundMessage{
		Type:        "message",
		Role:        "assistant",
		Text:        reply.Text,
		Intent:      reply.Intent,
		Confidence:  reply.Confidence,
		Source:      reply.Source,
		Suggestions: reply.Suggestions,
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
	if !reply.Extracted.Empty() {
		extracted := reply.Extracted
		msg.Extracted = &extracted
	}
	return msg
}

// historyMessages flattens turns into alternating user/assistant lines.
func historyMessages(turns []dialogue.Turn) []HistoryMessage {
	out := make([]HistoryMessage, 0, len(turns)*2)
	for _, turn := range turns {
		ts := turn.Timestamp.UTC().Format(time.RFC3339)
		out = append(out,
			HistoryMessage{Role: "user", Text: turn.UserText, Timestamp: ts},
			HistoryMessage{Role: "assistant", Text: turn.BotText, Timestamp: ts},
		)
	}
	return out
}

func greetingFor(sess *dialogue.Session) *dialogue.Reply {
	if sess.Persona().Greeting == "" {
		return nil
	}
	greeting := sess.Greeting()
	return &greeting
}

func summarize(p *dialogue.Persona) PersonaSummary {
	return PersonaSummary{
		Name:         p.Name,
		Title:        p.Title,
		Currency:     p.Currency,
		QuickActions: p.SuggestionsFor(dialogue.NewConversationContext()),
	}
}
