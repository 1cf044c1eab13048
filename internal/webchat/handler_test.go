package webchat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/parley/internal/dialogue"
	"github.com/wolfman30/parley/internal/session"
	"github.com/wolfman30/parley/pkg/logging"
)

type blockingGenerator struct {
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) Generate(context.Context, string) dialogue.Generation {
	close(g.entered)
	<-g.release
	return dialogue.Generation{Status: dialogue.GenerationGenerated, Text: "Thanks for waiting!"}
}

func newTestServer(t *testing.T, sessionOpts ...dialogue.SessionOption) (*httptest.Server, *session.Manager) {
	t.Helper()
	manager := session.NewManager(
		session.WithLogger(logging.Discard()),
		session.WithSessionOptions(append([]dialogue.SessionOption{dialogue.WithSeed(1)}, sessionOpts...)...),
	)
	h := NewHandler(manager, logging.Discard())

	r := chi.NewRouter()
	r.Get("/api/personas", h.HandlePersonas)
	r.Post("/api/sessions", h.HandleCreateSession)
	r.Post("/api/sessions/{id}/messages", h.HandleMessage)
	r.Get("/api/sessions/{id}/history", h.HandleHistory)
	r.Post("/api/sessions/{id}/reset", h.HandleReset)
	r.Delete("/api/sessions/{id}", h.HandleDelete)
	r.Get("/ws", h.HandleWebSocket)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, manager
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func createSession(t *testing.T, srv *httptest.Server, persona string) SessionResponse {
	t.Helper()
	resp := post(t, srv.URL+"/api/sessions", `{"persona":"`+persona+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateSession(t *testing.T) {
	srv, manager := newTestServer(t)

	created := createSession(t, srv, "influencer")
	assert.NotEmpty(t, created.SessionID)
	assert.Equal(t, dialogue.InfluencerPersona, created.Persona)
	require.NotNil(t, created.Greeting)
	assert.Contains(t, created.Greeting.Text, "Which platform")
	assert.NotEmpty(t, created.Greeting.Suggestions)
	assert.Equal(t, 1, manager.Len())
}

func TestCreateSession_UnknownPersona(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := post(t, srv.URL+"/api/sessions", `{"persona":"pirate"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSession_EmptyBodyUsesDefaultPersona(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, dialogue.CustomerServicePersona, out.Persona)
}

func TestHandleMessage(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createSession(t, srv, "customer_service")

	resp := post(t, srv.URL+"/api/sessions/"+created.SessionID+"/messages", `{"text":"Where is my order #12345?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply ReplyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, created.SessionID, reply.SessionID)
	assert.Equal(t, "order_tracking", reply.Intent)
	assert.Equal(t, dialogue.SourceTemplate, reply.Source)
	assert.Equal(t, "12345", reply.Extracted.OrderNumber)
	assert.NotEmpty(t, reply.TurnID)
}

func TestHandleMessage_BlankTextIs400(t *testing.T) {
	srv, manager := newTestServer(t)
	created := createSession(t, srv, "customer_service")

	resp := post(t, srv.URL+"/api/sessions/"+created.SessionID+"/messages", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	sess, err := manager.Get(created.SessionID)
	require.NoError(t, err)
	assert.Empty(t, sess.History())
}

func TestHandleMessage_UnknownSessionIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := post(t, srv.URL+"/api/sessions/nope/messages", `{"text":"hi"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleMessage_ConcurrentTurnIs409(t *testing.T) {
	gen := &blockingGenerator{entered: make(chan struct{}), release: make(chan struct{})}
	srv, _ := newTestServer(t, dialogue.WithGenerator(gen))
	created := createSession(t, srv, "customer_service")
	url := srv.URL + "/api/sessions/" + created.SessionID + "/messages"

	first := make(chan int, 1)
	go func() {
		resp, err := http.Post(url, "application/json", strings.NewReader(`{"text":"Hello"}`))
		if err != nil {
			first <- 0
			return
		}
		resp.Body.Close()
		first <- resp.StatusCode
	}()
	<-gen.entered

	resp := post(t, url, `{"text":"Where is my order?"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	close(gen.release)
	assert.Equal(t, http.StatusOK, <-first)
}

func TestHandleHistory(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createSession(t, srv, "customer_service")
	base := srv.URL + "/api/sessions/" + created.SessionID
	post(t, base+"/messages", `{"text":"hello"}`)
	post(t, base+"/messages", `{"text":"I want a refund"}`)

	resp, err := http.Get(base + "/history")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turns, err := dialogue.ParseTranscriptJSON(resp.Body)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].UserText)
	assert.Equal(t, "I want a refund", turns[1].UserText)

	textResp, err := http.Get(base + "/history?format=text")
	require.NoError(t, err)
	defer textResp.Body.Close()
	assert.Equal(t, "text/plain; charset=utf-8", textResp.Header.Get("Content-Type"))

	badResp, err := http.Get(base + "/history?format=xml")
	require.NoError(t, err)
	defer badResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badResp.StatusCode)
}

func TestHandleResetAndDelete(t *testing.T) {
	srv, manager := newTestServer(t)
	created := createSession(t, srv, "influencer")
	base := srv.URL + "/api/sessions/" + created.SessionID
	post(t, base+"/messages", `{"text":"I have 50k followers on Instagram"}`)

	resp := post(t, base+"/reset", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	sess, err := manager.Get(created.SessionID)
	require.NoError(t, err)
	assert.Empty(t, sess.History())
	assert.Nil(t, sess.Context().Followers)

	req, err := http.NewRequest(http.MethodDelete, base, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	again := post(t, base+"/reset", "")
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestHandlePersonas(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/personas")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Personas []PersonaSummary `json:"personas"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	names := make([]string, 0, len(out.Personas))
	for _, p := range out.Personas {
		names = append(names, p.Name)
	}
	assert.Equal(t, dialogue.BuiltinNames(), names)
}

func TestWebSocketChat(t *testing.T) {
	srv, _ := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?persona=customer_service"

	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	assert.Equal(t, "session", msg.Type)
	sessionID := msg.SessionID
	assert.NotEmpty(t, sessionID)

	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	assert.Equal(t, "message", msg.Type)
	assert.Equal(t, "greeting", msg.Intent)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	assert.Equal(t, "pong", msg.Type)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "I was charged twice on my bill"}))
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	assert.Equal(t, "typing", msg.Type)
	msg = OutboundMessage{}
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	assert.Equal(t, "message", msg.Type)
	assert.Equal(t, "assistant", msg.Role)
	assert.Equal(t, "billing", msg.Intent)
	assert.NotEmpty(t, msg.Text)

	// A second connection resumes the session and replays history.
	resumed, err := websocket.Dial(wsURL+"&session="+sessionID, "", srv.URL)
	require.NoError(t, err)
	defer resumed.Close()

	var first, second OutboundMessage
	require.NoError(t, websocket.JSON.Receive(resumed, &first))
	assert.Equal(t, sessionID, first.SessionID)
	require.NoError(t, websocket.JSON.Receive(resumed, &second))
	assert.Equal(t, "history", second.Type)
	require.Len(t, second.Messages, 2)
	assert.Equal(t, "user", second.Messages[0].Role)
	assert.Equal(t, "I was charged twice on my bill", second.Messages[0].Text)
}

func TestWebSocketUnknownPersona(t *testing.T) {
	srv, _ := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?persona=pirate"

	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	assert.Equal(t, "error", msg.Type)
}
