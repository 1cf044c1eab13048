package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/parley/internal/config"
	"github.com/wolfman30/parley/internal/conversation"
	"github.com/wolfman30/parley/internal/dialogue"
	"github.com/wolfman30/parley/internal/observability/metrics"
	"github.com/wolfman30/parley/internal/session"
	"github.com/wolfman30/parley/pkg/logging"
)

// Runtime is everything a binary needs to serve chat sessions.
type Runtime struct {
	Sessions    *session.Manager
	Metrics     *metrics.DialogueMetrics
	Registry    *prometheus.Registry
	Transcripts *conversation.TranscriptStore
	Generator   dialogue.Generator

	closers []func() error
}

// Close releases Redis and LLM connections.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}

// BuildRuntime wires personas, the transcript mirror, metrics and the LLM
// generator into a session manager. llm may be nil to disable generation.
func BuildRuntime(ctx context.Context, cfg *appconfig.Config, llm conversation.LLMClient, logger *logging.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	rt := &Runtime{Registry: prometheus.NewRegistry()}
	rt.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rt.Metrics = metrics.NewDialogueMetrics(rt.Registry)

	managerOpts := []session.Option{
		session.WithLogger(logger),
		session.WithDefaultPersona(cfg.Persona),
		session.WithIdleTTL(cfg.SessionIdleTTL),
	}

	custom, err := LoadPersonaFiles(cfg.PersonaFile)
	if err != nil {
		return nil, err
	}
	for _, p := range custom {
		managerOpts = append(managerOpts, session.WithPersona(p))
		logger.Info("persona loaded", "persona", p.Name)
	}

	sessionOpts := []dialogue.SessionOption{
		dialogue.WithObserver(rt.Metrics),
		dialogue.WithHistoryWindow(cfg.HistoryWindow),
	}
	if cfg.Seeded {
		sessionOpts = append(sessionOpts, dialogue.WithSeed(cfg.RandomSeed))
	}

	if redisClient := BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		rt.closers = append(rt.closers, redisClient.Close)
		rt.Transcripts = conversation.NewTranscriptStore(redisClient,
			conversation.WithTranscriptTTL(cfg.TranscriptTTL),
			conversation.WithMaxTurns(int64(cfg.TranscriptMaxTurns)),
		)
		sessionOpts = append(sessionOpts, dialogue.WithRecorder(rt.Transcripts))
		managerOpts = append(managerOpts, session.WithTranscripts(rt.Transcripts))
		logger.Info("transcript mirror enabled", "redis", cfg.RedisAddr)
	}

	rt.Generator = BuildGenerator(llm, cfg, logger, rt.Metrics)
	sessionOpts = append(sessionOpts, dialogue.WithGenerator(rt.Generator))
	managerOpts = append(managerOpts, session.WithSessionOptions(sessionOpts...))

	rt.Sessions = session.NewManager(managerOpts...)
	if _, err := rt.Sessions.Persona(cfg.Persona); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("bootstrap: default persona: %w", err)
	}
	return rt, nil
}

// LoadPersonaFiles parses a comma-separated list of persona YAML files.
func LoadPersonaFiles(paths string) ([]*dialogue.Persona, error) {
	var out []*dialogue.Persona
	for _, path := range strings.Split(paths, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		p, err := dialogue.LoadPersonaFile(path)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: persona file %s: %w", path, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available; transcript mirror disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
