package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/parley/internal/config"
	"github.com/wolfman30/parley/internal/conversation"
	"github.com/wolfman30/parley/internal/dialogue"
	"github.com/wolfman30/parley/pkg/logging"
)

// LoadAWSConfig centralizes AWS SDK initialization so every binary shares the
// same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, loaders...)
}

// BuildLLMClient wires the providers named by LLM_PROVIDER. Each provider is
// wrapped in the rate-limit retry policy; a second provider becomes the
// fallback. A nil client with a nil error means generation is disabled. The
// returned close func releases provider connections.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (conversation.LLMClient, func() error, error) {
	noop := func() error { return nil }
	if cfg == nil {
		return nil, noop, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	providers, err := cfg.LLMProviders()
	if err != nil {
		return nil, noop, err
	}
	if len(providers) == 0 {
		logger.Info("generative replies disabled; using templates only")
		return nil, noop, nil
	}

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	clients := make([]conversation.LLMClient, 0, len(providers))
	for _, provider := range providers {
		client, closeFn, err := buildProvider(ctx, cfg, provider)
		if err != nil {
			_ = closeAll()
			return nil, noop, err
		}
		closers = append(closers, closeFn)
		clients = append(clients, conversation.NewRetryingLLMClient(client, logger,
			conversation.WithMaxRetries(cfg.LLMMaxRetries),
			conversation.WithBaseDelay(cfg.LLMRetryBaseDelay),
		))
		logger.Info("llm provider configured", "provider", provider)
	}

	if len(clients) == 1 {
		return clients[0], closeAll, nil
	}
	return conversation.NewFallbackLLMClient(clients[0], clients[1], logger), closeAll, nil
}

func buildProvider(ctx context.Context, cfg *appconfig.Config, provider string) (conversation.LLMClient, func() error, error) {
	switch provider {
	case appconfig.ProviderGemini:
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: gemini: %w", err)
		}
		return client, client.Close, nil
	case appconfig.ProviderBedrock:
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return nil, nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		bedrockClient := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
			if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
		return conversation.NewBedrockLLMClient(bedrockClient, cfg.BedrockModelID), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown llm provider %q", provider)
	}
}

// BuildGenerator adapts client for the dialogue core; a nil client disables
// generation.
func BuildGenerator(client conversation.LLMClient, cfg *appconfig.Config, logger *logging.Logger, observer conversation.CompletionObserver) dialogue.Generator {
	if client == nil {
		return dialogue.DisabledGenerator{}
	}
	genCfg := conversation.DefaultGeneratorConfig()
	if cfg != nil {
		genCfg.Temperature = float32(cfg.LLMTemperature)
		genCfg.TopK = int32(cfg.LLMTopK)
		genCfg.TopP = float32(cfg.LLMTopP)
		genCfg.MaxTokens = int32(cfg.LLMMaxTokens)
		genCfg.Timeout = cfg.LLMTimeout
	}
	return conversation.NewGenerator(client, genCfg, logger, observer)
}
