package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/parley/internal/dialogue"
	"github.com/wolfman30/parley/pkg/logging"
)

var generatorTracer = otel.Tracer("parley.internal.conversation.generator")

// CompletionObserver receives per-call latency and token usage.
type CompletionObserver interface {
	ObserveCompletion(status string, seconds float64, inputTokens, outputTokens int32)
}

// GeneratorConfig holds the sampling settings sent with every prompt.
type GeneratorConfig struct {
	Temperature float32
	TopK        int32
	TopP        float32
	MaxTokens   int32
	Timeout     time.Duration
}

// DefaultGeneratorConfig keeps replies short.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Temperature: 0.7,
		TopK:        40,
		TopP:        0.95,
		MaxTokens:   150,
		Timeout:     20 * time.Second,
	}
}

// Generator adapts an LLMClient to dialogue.Generator. It never returns an
// error; failures become statuses so the session can fall back to templates.
type Generator struct {
	client   LLMClient
	cfg      GeneratorConfig
	logger   *logging.Logger
	observer CompletionObserver
}

// NewGenerator wraps client. observer may be nil.
func NewGenerator(client LLMClient, cfg GeneratorConfig, logger *logging.Logger, observer CompletionObserver) *Generator {
	if client == nil {
		panic("conversation: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{client: client, cfg: cfg, logger: logger, observer: observer}
}

func (g *Generator) Generate(ctx context.Context, prompt string) dialogue.Generation {
	ctx, span := generatorTracer.Start(ctx, "conversation.generate")
	defer span.End()

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Complete(ctx, LLMRequest{
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		TopP:        g.cfg.TopP,
		TopK:        g.cfg.TopK,
	})

	result := dialogue.Generation{Status: dialogue.GenerationGenerated, Text: resp.Text}
	switch {
	case errors.Is(err, ErrRateLimited):
		result = dialogue.Generation{Status: dialogue.GenerationRateLimited}
	case errors.Is(err, ErrMalformedResponse):
		result = dialogue.Generation{Status: dialogue.GenerationMalformed}
	case err != nil:
		result = dialogue.Generation{Status: dialogue.GenerationFailed}
	case strings.TrimSpace(resp.Text) == "":
		result = dialogue.Generation{Status: dialogue.GenerationMalformed}
	}

	if err != nil {
		span.RecordError(err)
		g.logger.Warn("llm generation failed", "status", result.Status, "error", err)
	}
	span.SetAttributes(attribute.String("llm.status", string(result.Status)))
	if g.observer != nil {
		g.observer.ObserveCompletion(string(result.Status), time.Since(start).Seconds(),
			resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	return result
}
