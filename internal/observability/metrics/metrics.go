package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/parley/internal/dialogue"
)

// DialogueMetrics exposes counters/histograms for chat turns and LLM calls.
type DialogueMetrics struct {
	turnsTotal       *prometheus.CounterVec
	turnLatency      *prometheus.HistogramVec
	generationsTotal *prometheus.CounterVec
	llmLatency       *prometheus.HistogramVec
	llmTokensTotal   *prometheus.CounterVec
}

func NewDialogueMetrics(reg prometheus.Registerer) *DialogueMetrics {
	m := &DialogueMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Completed turns by persona, intent and reply source",
		}, []string{"persona", "intent", "source"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "parley",
			Subsystem: "dialogue",
			Name:      "turn_latency_seconds",
			Help:      "Latency of a full turn including generation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"persona"}),
		generationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Subsystem: "dialogue",
			Name:      "generations_total",
			Help:      "Generation outcomes by persona and status",
		}, []string{"persona", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "parley",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "Latency of LLM completion calls",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"status"}),
		llmTokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Tokens consumed by LLM calls",
		}, []string{"type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.generationsTotal, m.llmLatency, m.llmTokensTotal)
	return m
}

// TurnCompleted implements dialogue.Observer.
func (m *DialogueMetrics) TurnCompleted(persona string, reply dialogue.Reply, latency time.Duration) {
	if m == nil {
		return
	}
	intent := reply.Intent
	if intent == "" {
		intent = "none"
	}
	m.turnsTotal.WithLabelValues(persona, intent, string(reply.Source)).Inc()
	m.turnLatency.WithLabelValues(persona).Observe(latency.Seconds())
}

// GenerationFinished implements dialogue.Observer.
func (m *DialogueMetrics) GenerationFinished(persona string, status dialogue.GenerationStatus) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(persona, string(status)).Inc()
}

// ObserveCompletion records one LLM call.
func (m *DialogueMetrics) ObserveCompletion(status string, seconds float64, inputTokens, outputTokens int32) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(status).Observe(seconds)
	if inputTokens > 0 {
		m.llmTokensTotal.WithLabelValues("input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokensTotal.WithLabelValues("output").Add(float64(outputTokens))
	}
}
