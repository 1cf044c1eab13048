package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported LLM providers.
const (
	ProviderNone    = "none"
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Dialogue
	Persona       string
	PersonaFile   string
	RandomSeed    int64
	Seeded        bool
	HistoryWindow int

	// Generative replies
	LLMProvider       string
	GeminiAPIKey      string
	GeminiModelID     string
	BedrockModelID    string
	LLMMaxRetries     int
	LLMRetryBaseDelay time.Duration
	LLMTimeout        time.Duration
	LLMTemperature    float64
	LLMTopK           int
	LLMTopP           float64
	LLMMaxTokens      int

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Transcript mirror
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	TranscriptTTL      time.Duration
	TranscriptMaxTurns int

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	SessionIdleTTL     time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	seedStr := strings.TrimSpace(os.Getenv("RANDOM_SEED"))
	seed, seedErr := strconv.ParseInt(seedStr, 10, 64)

	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),

		Persona:       strings.ToLower(strings.TrimSpace(getEnv("PERSONA", "customer_service"))),
		PersonaFile:   getEnv("PERSONA_FILE", ""),
		RandomSeed:    seed,
		Seeded:        seedStr != "" && seedErr == nil,
		HistoryWindow: getEnvAsInt("HISTORY_WINDOW", 5),

		LLMProvider:       strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", ProviderNone))),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:     getEnv("GEMINI_MODEL_ID", "gemini-1.5-flash"),
		BedrockModelID:    getEnv("BEDROCK_MODEL_ID", ""),
		LLMMaxRetries:     getEnvAsInt("LLM_MAX_RETRIES", 3),
		LLMRetryBaseDelay: getEnvAsDuration("LLM_RETRY_BASE_DELAY", time.Second),
		LLMTimeout:        getEnvAsDuration("LLM_TIMEOUT", 20*time.Second),
		LLMTemperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		LLMTopK:           getEnvAsInt("LLM_TOP_K", 40),
		LLMTopP:           getEnvAsFloat("LLM_TOP_P", 0.95),
		LLMMaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 150),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		TranscriptTTL:      getEnvAsDuration("TRANSCRIPT_TTL", 24*time.Hour),
		TranscriptMaxTurns: getEnvAsInt("TRANSCRIPT_MAX_TURNS", 250),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		SessionIdleTTL:     getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
	}
}

// LLMProviders splits LLM_PROVIDER ("gemini+bedrock") into an ordered
// primary/fallback list. "none" or empty yields nil.
func (c *Config) LLMProviders() ([]string, error) {
	if c.LLMProvider == "" || c.LLMProvider == ProviderNone {
		return nil, nil
	}
	parts := strings.Split(c.LLMProvider, "+")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case ProviderGemini, ProviderBedrock:
			out = append(out, p)
		default:
			return nil, fmt.Errorf("config: unknown LLM_PROVIDER %q", p)
		}
	}
	if len(out) > 2 {
		return nil, fmt.Errorf("config: LLM_PROVIDER accepts at most a primary and a fallback, got %q", c.LLMProvider)
	}
	return out, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
