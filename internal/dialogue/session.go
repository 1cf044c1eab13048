package dialogue

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/parley/pkg/logging"
)

var sessionTracer = otel.Tracer("parley.internal.dialogue.session")

var (
	// ErrEmptyMessage is returned for blank input; no turn is recorded.
	ErrEmptyMessage = errors.New("dialogue: message is empty")
	// ErrTurnInProgress is returned while another turn is being processed.
	ErrTurnInProgress = errors.New("dialogue: a turn is already in progress")
)

// ApologyReply is shown when a turn fails unexpectedly.
const ApologyReply = "I apologize, but I'm experiencing technical difficulties. Please try again in a moment."

// Reply is what the caller displays for one turn.
type Reply struct {
	TurnID      string        `json:"turn_id"`
	Text        string        `json:"text"`
	Intent      string        `json:"intent"`
	Confidence  float64       `json:"confidence"`
	Extracted   Entities      `json:"extracted"`
	Source      Source        `json:"source"`
	Suggestions []QuickAction `json:"suggestions,omitempty"`
}

// Observer is notified about completed turns and generation outcomes.
type Observer interface {
	TurnCompleted(persona string, reply Reply, latency time.Duration)
	GenerationFinished(persona string, status GenerationStatus)
}

// TurnRecorder mirrors turns to external storage. Failures are logged and
// never fail the turn.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, sessionID string, turn Turn) error
}

type sessionConfig struct {
	id        string
	generator Generator
	clock     func() time.Time
	picker    Picker
	seed      *int64
	logger    *logging.Logger
	observer  Observer
	recorder  TurnRecorder
	window    int
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

// WithSessionID sets the identifier used for logging and recording.
func WithSessionID(id string) SessionOption {
	return func(cfg *sessionConfig) {
		if id = strings.TrimSpace(id); id != "" {
			cfg.id = id
		}
	}
}

// WithGenerator enables the generative reply path.
func WithGenerator(g Generator) SessionOption {
	return func(cfg *sessionConfig) {
		if g != nil {
			cfg.generator = g
		}
	}
}

// WithClock overrides time.Now for turn timestamps and latency.
func WithClock(clock func() time.Time) SessionOption {
	return func(cfg *sessionConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// WithPicker sets the template randomness source. The picker is used by this
// session only; share one across sessions only if it is safe for concurrent use.
func WithPicker(p Picker) SessionOption {
	return func(cfg *sessionConfig) {
		if p != nil {
			cfg.picker = p
			cfg.seed = nil
		}
	}
}

// WithSeed seeds the template picker for reproducible replies. Every session
// built with the option gets its own source starting from seed.
func WithSeed(seed int64) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.seed = &seed
		cfg.picker = nil
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *logging.Logger) SessionOption {
	return func(cfg *sessionConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithObserver registers a turn observer, typically metrics.
func WithObserver(o Observer) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.observer = o
	}
}

// WithRecorder mirrors every turn to r.
func WithRecorder(r TurnRecorder) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.recorder = r
	}
}

// WithHistoryWindow bounds how many prior turns are sent to the generator.
func WithHistoryWindow(n int) SessionOption {
	return func(cfg *sessionConfig) {
		if n > 0 {
			cfg.window = n
		}
	}
}

// Session owns the context and history of one conversation and processes
// one turn at a time.
type Session struct {
	id         string
	persona    *Persona
	classifier *Classifier
	tracker    *Tracker
	composer   *Composer
	generator  Generator
	clock      func() time.Time
	logger     *logging.Logger
	observer   Observer
	recorder   TurnRecorder
	window     int

	busy atomic.Bool

	mu      sync.RWMutex
	convo   ConversationContext
	history []Turn
	// epoch changes on Reset so a turn that started earlier does not commit
	// over the fresh state.
	epoch uint64
}

// NewSession builds a session for persona.
func NewSession(persona *Persona, opts ...SessionOption) (*Session, error) {
	if err := persona.Validate(); err != nil {
		return nil, err
	}
	cfg := sessionConfig{
		id:        uuid.NewString(),
		generator: DisabledGenerator{},
		clock:     time.Now,
		logger:    logging.Default(),
		window:    DefaultHistoryWindow,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.picker == nil {
		seed := time.Now().UnixNano()
		if cfg.seed != nil {
			seed = *cfg.seed
		}
		cfg.picker = rand.New(rand.NewSource(seed))
	}

	return &Session{
		id:         cfg.id,
		persona:    persona,
		classifier: NewClassifier(persona.Catalog),
		tracker:    NewTracker(NewSentimentAnalyzer(persona.Lexicon), persona.Extractor(), persona.Machine),
		composer:   NewComposer(persona, persona.Calculator(), cfg.picker),
		generator:  cfg.generator,
		clock:      cfg.clock,
		logger:     cfg.logger,
		observer:   cfg.observer,
		recorder:   cfg.recorder,
		window:     cfg.window,
		convo:      NewConversationContext(),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Persona returns the persona driving the session.
func (s *Session) Persona() *Persona { return s.persona }

// Greeting returns the persona's opening line with its initial suggestions.
func (s *Session) Greeting() Reply {
	return Reply{
		Text:        s.persona.Greeting,
		Intent:      IntentGreeting,
		Source:      SourceTemplate,
		Suggestions: s.persona.SuggestionsFor(s.Context()),
	}
}

// Process runs one turn. Blank input returns ErrEmptyMessage and a call made
// while another turn is running returns ErrTurnInProgress. Every other
// outcome, including internal failures, yields a reply and a recorded turn.
func (s *Session) Process(ctx context.Context, text string) (Reply, error) {
	message := strings.TrimSpace(text)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}
	if !s.busy.CompareAndSwap(false, true) {
		return Reply{}, ErrTurnInProgress
	}
	defer s.busy.Store(false)

	ctx, span := sessionTracer.Start(ctx, "dialogue.session.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("dialogue.session_id", s.id),
		attribute.String("dialogue.persona", s.persona.Name),
	)

	start := s.clock()
	s.mu.RLock()
	convo := s.convo.Clone()
	history := append([]Turn(nil), s.history...)
	epoch := s.epoch
	s.mu.RUnlock()

	var cls Classification
	reply, err := s.runTurn(ctx, message, &convo, history, &cls)
	committed := err == nil
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "turn failed")
		s.logger.Error("dialogue: turn failed", "session_id", s.id, "persona", s.persona.Name, "error", err)
		reply = Reply{
			Text:       ApologyReply,
			Intent:     cls.Intent,
			Confidence: cls.Confidence,
			Source:     SourceApology,
		}
		if reply.Intent == "" {
			reply.Intent = DefaultIntent
		}
	}

	turn := Turn{
		ID:         uuid.NewString(),
		Timestamp:  s.clock(),
		UserText:   message,
		BotText:    reply.Text,
		Intent:     reply.Intent,
		Confidence: reply.Confidence,
		Source:     reply.Source,
	}
	reply.TurnID = turn.ID

	s.mu.Lock()
	current := s.epoch == epoch
	if current {
		if committed {
			s.convo = convo
		}
		s.history = append(s.history, turn)
	}
	latest := s.convo.Clone()
	s.mu.Unlock()
	reply.Suggestions = s.persona.SuggestionsFor(latest)

	span.SetAttributes(
		attribute.String("dialogue.intent", reply.Intent),
		attribute.String("dialogue.source", string(reply.Source)),
	)

	// A turn overtaken by Reset belongs to the discarded conversation.
	if s.recorder != nil && current {
		if err := s.recorder.RecordTurn(ctx, s.id, turn); err != nil {
			s.logger.Warn("dialogue: failed to record turn", "session_id", s.id, "error", err)
		}
	}
	latency := s.clock().Sub(start)
	if s.observer != nil {
		s.observer.TurnCompleted(s.persona.Name, reply, latency)
	}
	s.logger.Debug("dialogue: turn processed",
		"session_id", s.id,
		"persona", s.persona.Name,
		"intent", reply.Intent,
		"confidence", reply.Confidence,
		"source", reply.Source,
		"latency_ms", latency.Milliseconds(),
	)
	return reply, nil
}

// runTurn works on a private copy of the context. A panic is converted into
// an error so the caller can record the apology turn.
func (s *Session) runTurn(ctx context.Context, message string, convo *ConversationContext, history []Turn, cls *Classification) (reply Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dialogue: panic during turn: %v", r)
		}
	}()

	*cls = s.classifier.Classify(ctx, message, convo)
	extracted := s.tracker.Update(convo, message, *cls)

	reply = Reply{
		Intent:     cls.Intent,
		Confidence: cls.Confidence,
		Extracted:  extracted,
	}

	if _, disabled := s.generator.(DisabledGenerator); !disabled {
		prompt := BuildPrompt(PromptInput{
			Persona:        s.persona,
			Context:        *convo,
			History:        history,
			Window:         s.window,
			Message:        message,
			Classification: *cls,
		})
		gen := s.generator.Generate(ctx, prompt)
		if s.observer != nil {
			s.observer.GenerationFinished(s.persona.Name, gen.Status)
		}
		if gen.OK() {
			reply.Text = strings.TrimSpace(gen.Text)
			reply.Source = SourceGenerated
			return reply, nil
		}
		if gen.Status != GenerationDisabled {
			s.logger.Info("dialogue: generation unavailable, using template", "session_id", s.id, "status", gen.Status)
		}
	}

	reply.Text = s.composer.Compose(*cls, *convo)
	reply.Source = SourceTemplate
	return reply, nil
}

// Reset clears the context and history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convo = NewConversationContext()
	s.history = nil
	s.epoch++
}

// History returns a copy of the recorded turns in order.
func (s *Session) History() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Turn(nil), s.history...)
}

// Context returns a snapshot of the conversation context.
func (s *Session) Context() ConversationContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.convo.Clone()
}

// Busy reports whether a turn is in progress.
func (s *Session) Busy() bool {
	return s.busy.Load()
}
