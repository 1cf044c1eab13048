// Package session keeps the registry of live chat sessions. Each
// dialogue.Session is owned by exactly one client; the manager only guards
// the lookup map.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/parley/internal/dialogue"
	"github.com/wolfman30/parley/pkg/logging"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session: not found")

const (
	defaultIdleTTL       = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// TranscriptDeleter drops mirrored turns when a session is reset or removed.
type TranscriptDeleter interface {
	Delete(ctx context.Context, sessionID string) error
}

type entry struct {
	session  *dialogue.Session
	lastUsed time.Time
}

// Manager creates and tracks sessions by id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry

	personas    map[string]*dialogue.Persona
	defaultName string
	sessionOpts []dialogue.SessionOption
	transcripts TranscriptDeleter
	idleTTL     time.Duration
	now         func() time.Time
	logger      *logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithPersona registers an extra persona, overriding a built-in of the same name.
func WithPersona(p *dialogue.Persona) Option {
	return func(m *Manager) {
		if p != nil {
			m.personas[strings.ToLower(p.Name)] = p
		}
	}
}

// WithDefaultPersona names the persona used when Create gets an empty name.
func WithDefaultPersona(name string) Option {
	return func(m *Manager) {
		if name = strings.TrimSpace(name); name != "" {
			m.defaultName = strings.ToLower(name)
		}
	}
}

// WithSessionOptions applies opts to every new session.
func WithSessionOptions(opts ...dialogue.SessionOption) Option {
	return func(m *Manager) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// WithTranscripts clears mirrored transcripts on reset and delete.
func WithTranscripts(t TranscriptDeleter) Option {
	return func(m *Manager) {
		m.transcripts = t
	}
}

// WithIdleTTL sets how long an unused session survives a sweep.
func WithIdleTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.idleTTL = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the manager logger.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager builds a manager. Built-in personas are always available.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions:    make(map[string]*entry),
		personas:    make(map[string]*dialogue.Persona),
		defaultName: dialogue.CustomerServicePersona,
		idleTTL:     defaultIdleTTL,
		now:         time.Now,
		logger:      logging.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Persona resolves name against registered personas, then built-ins.
func (m *Manager) Persona(name string) (*dialogue.Persona, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = m.defaultName
	}
	if p, ok := m.personas[key]; ok {
		return p, nil
	}
	return dialogue.Builtin(key)
}

// Personas lists every persona name Create accepts, sorted.
func (m *Manager) Personas() []string {
	seen := make(map[string]struct{})
	for _, name := range dialogue.BuiltinNames() {
		seen[name] = struct{}{}
	}
	for name := range m.personas {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create starts a session for the named persona.
func (m *Manager) Create(personaName string) (*dialogue.Session, error) {
	persona, err := m.Persona(personaName)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	opts := make([]dialogue.SessionOption, 0, len(m.sessionOpts)+2)
	opts = append(opts, m.sessionOpts...)
	opts = append(opts,
		dialogue.WithSessionID(id),
		dialogue.WithLogger(m.logger.With("session_id", id, "persona", persona.Name)),
	)
	sess, err := dialogue.NewSession(persona, opts...)
	if err != nil {
		return nil, fmt.Errorf("session: create %s: %w", persona.Name, err)
	}

	m.mu.Lock()
	m.sessions[id] = &entry{session: sess, lastUsed: m.now()}
	total := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", id, "persona", persona.Name, "active_sessions", total)
	return sess, nil
}

// Get returns the session and marks it used.
func (m *Manager) Get(id string) (*dialogue.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastUsed = m.now()
	return e.session, nil
}

// Reset clears a session's context and history and its mirrored transcript.
func (m *Manager) Reset(ctx context.Context, id string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	sess.Reset()
	m.dropTranscript(ctx, id)
	return nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	m.dropTranscript(ctx, id)
	m.logger.Info("session deleted", "session_id", id)
	return nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL along with their mirrored
// transcripts. Sessions mid-turn are kept.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.idleTTL)
	var swept []string
	m.mu.Lock()
	for id, e := range m.sessions {
		if e.lastUsed.Before(cutoff) && !e.session.Busy() {
			delete(m.sessions, id)
			swept = append(swept, id)
		}
	}
	m.mu.Unlock()

	for _, id := range swept {
		m.dropTranscript(ctx, id)
	}
	if len(swept) > 0 {
		m.logger.Info("idle sessions swept", "removed", len(swept))
	}
	return len(swept)
}

// Run sweeps periodically until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := defaultSweepInterval
	if m.idleTTL < interval {
		interval = m.idleTTL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

func (m *Manager) dropTranscript(ctx context.Context, id string) {
	if m.transcripts == nil {
		return
	}
	if err := m.transcripts.Delete(ctx, id); err != nil {
		m.logger.Warn("transcript delete failed", "session_id", id, "error", err)
	}
}
