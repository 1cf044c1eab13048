// Package webchat serves the chat API over REST and websocket.
package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/parley/internal/dialogue"
	"github.com/wolfman30/parley/internal/session"
	"github.com/wolfman30/parley/pkg/logging"
)

const maxBodyBytes = 16 << 10

// Sessions is the registry the handler drives.
type Sessions interface {
	Create(persona string) (*dialogue.Session, error)
	Get(id string) (*dialogue.Session, error)
	Reset(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Persona(name string) (*dialogue.Persona, error)
	Personas() []string
}

// Handler manages chat sessions over HTTP and websocket.
type Handler struct {
	sessions Sessions
	logger   *logging.Logger
	now      func() time.Time
}

// NewHandler creates a chat handler.
func NewHandler(sessions Sessions, logger *logging.Logger) *Handler {
	if sessions == nil {
		panic("webchat: sessions cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{sessions: sessions, logger: logger, now: time.Now}
}

// HandleCreateSession starts a session: POST /api/sessions {"persona": "..."}.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Persona string `json:"persona"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessions.Create(req.Persona)
	if err != nil {
		if errors.Is(err, dialogue.ErrUnknownPersona) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("webchat: create session failed", "persona", req.Persona, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID(),
		Persona:   sess.Persona().Name,
		Title:     sess.Persona().Title,
		Greeting:  greetingFor(sess),
	})
}

// HandleMessage runs one turn: POST /api/sessions/{id}/messages {"text": "..."}.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := sess.Process(r.Context(), req.Text)
	switch {
	case errors.Is(err, dialogue.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "text is required")
		return
	case errors.Is(err, dialogue.ErrTurnInProgress):
		writeError(w, http.StatusConflict, "a message is already being processed for this session")
		return
	case err != nil:
		h.logger.Error("webchat: turn failed", "session_id", sess.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, ReplyResponse{SessionID: sess.ID(), Reply: reply})
}

// HandleHistory exports the transcript: GET /api/sessions/{id}/history?format=json|text.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	turns := sess.History()
	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := dialogue.ExportJSON(w, turns); err != nil {
			h.logger.Error("webchat: export history failed", "session_id", sess.ID(), "error", err)
		}
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, dialogue.RenderText(turns))
	default:
		writeError(w, http.StatusBadRequest, "format must be json or text")
	}
}

// HandleReset clears context and history: POST /api/sessions/{id}/reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Reset(r.Context(), id); err != nil {
		h.writeSessionError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete ends a session: DELETE /api/sessions/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.writeSessionError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePersonas lists selectable personas: GET /api/personas.
func (h *Handler) HandlePersonas(w http.ResponseWriter, r *http.Request) {
	names := h.sessions.Personas()
	out := make([]PersonaSummary, 0, len(names))
	for _, name := range names {
		p, err := h.sessions.Persona(name)
		if err != nil {
			continue
		}
		out = append(out, summarize(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"personas": out})
}

// HandleWebSocket upgrades to websocket: GET /ws?persona=...&session=....
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	sess, resumed, err := h.attach(r)
	if err != nil {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: err.Error()})
		return
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sess.ID(),
		Persona:   sess.Persona().Name,
	})
	if resumed {
		if history := sess.History(); len(history) > 0 {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: historyMessages(history)})
		}
	} else if greeting := greetingFor(sess); greeting != nil {
		_ = websocket.JSON.Send(conn, replyMessage(*greeting, h.now()))
	}

	h.logger.Info("webchat: connection opened", "session_id", sess.ID(), "persona", sess.Persona().Name, "resumed", resumed)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sess.ID(), "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
		case "reset":
			if err := h.sessions.Reset(ctx, sess.ID()); err != nil {
				_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "session expired"})
				return
			}
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "reset", SessionID: sess.ID()})
			if greeting := greetingFor(sess); greeting != nil {
				_ = websocket.JSON.Send(conn, replyMessage(*greeting, h.now()))
			}
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})
			reply, err := sess.Process(ctx, msg.Text)
			if err != nil {
				text := "Sorry, something went wrong. Please try again."
				if errors.Is(err, dialogue.ErrTurnInProgress) {
					text = "Still working on your last message."
				}
				_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: text})
				continue
			}
			_ = websocket.JSON.Send(conn, replyMessage(reply, h.now()))
		}
	}
}

// attach resumes ?session= when it is live, otherwise creates a session for ?persona=.
func (h *Handler) attach(r *http.Request) (*dialogue.Session, bool, error) {
	if id := r.URL.Query().Get("session"); id != "" {
		if sess, err := h.sessions.Get(id); err == nil {
			return sess, true, nil
		}
	}
	sess, err := h.sessions.Create(r.URL.Query().Get("persona"))
	if err != nil {
		return nil, false, err
	}
	return sess, false, nil
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*dialogue.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		h.writeSessionError(w, id, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) writeSessionError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	h.logger.Error("webchat: session operation failed", "session_id", id, "error", err)
	writeError(w, http.StatusInternalServerError, "session operation failed")
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
