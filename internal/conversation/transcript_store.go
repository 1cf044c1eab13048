package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/parley/internal/dialogue"
)

const (
	transcriptKeyPrefix     = "parley:transcript:"
	defaultTranscriptTTL    = 24 * time.Hour
	defaultTranscriptLength = 250
)

// TranscriptStore persists completed turns in a capped Redis list per session.
type TranscriptStore struct {
	redis    *redis.Client
	tracer   trace.Tracer
	ttl      time.Duration
	maxTurns int64
}

// TranscriptOption configures a TranscriptStore.
type TranscriptOption func(*TranscriptStore)

// WithTranscriptTTL sets how long an idle transcript is kept.
func WithTranscriptTTL(ttl time.Duration) TranscriptOption {
	return func(s *TranscriptStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxTurns caps the number of turns kept per session.
func WithMaxTurns(n int64) TranscriptOption {
	return func(s *TranscriptStore) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

// NewTranscriptStore returns nil when redisClient is nil; a nil store is a
// no-op recorder.
func NewTranscriptStore(redisClient *redis.Client, opts ...TranscriptOption) *TranscriptStore {
	if redisClient == nil {
		return nil
	}
	s := &TranscriptStore{
		redis:    redisClient,
		tracer:   otel.Tracer("parley.internal.conversation.transcript"),
		ttl:      defaultTranscriptTTL,
		maxTurns: defaultTranscriptLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordTurn implements dialogue.TurnRecorder.
func (s *TranscriptStore) RecordTurn(ctx context.Context, sessionID string, turn dialogue.Turn) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("conversation: transcript sessionID required")
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("conversation: marshal transcript turn: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "conversation.transcript.append")
	defer span.End()

	key := transcriptKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	pipe.LTrim(ctx, key, -s.maxTurns, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: append transcript turn: %w", err)
	}
	return nil
}

// List returns the most recent limit turns in order, or all when limit <= 0.
// Entries that fail to decode are skipped.
func (s *TranscriptStore) List(ctx context.Context, sessionID string, limit int64) ([]dialogue.Turn, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if sessionID == "" {
		return nil, errors.New("conversation: transcript sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "conversation.transcript.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}
	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), start, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []dialogue.Turn{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: list transcript: %w", err)
	}

	out := make([]dialogue.Turn, 0, len(raw))
	for _, item := range raw {
		var turn dialogue.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, turn)
	}
	return out, nil
}

// Delete drops a session's transcript.
func (s *TranscriptStore) Delete(ctx context.Context, sessionID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, transcriptKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("conversation: delete transcript: %w", err)
	}
	return nil
}

func transcriptKey(sessionID string) string {
	return transcriptKeyPrefix + sessionID
}
