package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/parley/pkg/logging"
)

const (
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second
)

// RetryingLLMClient retries rate-limited completions with exponential backoff:
// base, 2*base, 4*base and so on. Other errors are returned immediately.
type RetryingLLMClient struct {
	next       LLMClient
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *logging.Logger
}

// RetryOption configures a RetryingLLMClient.
type RetryOption func(*RetryingLLMClient)

// WithMaxRetries sets how many retries follow the first attempt.
func WithMaxRetries(n int) RetryOption {
	return func(c *RetryingLLMClient) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBaseDelay sets the delay before the first retry.
func WithBaseDelay(d time.Duration) RetryOption {
	return func(c *RetryingLLMClient) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithSleeper replaces the context-aware sleep, mainly for tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) RetryOption {
	return func(c *RetryingLLMClient) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewRetryingLLMClient wraps next with the retry policy.
func NewRetryingLLMClient(next LLMClient, logger *logging.Logger, opts ...RetryOption) *RetryingLLMClient {
	if next == nil {
		panic("conversation: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	c := &RetryingLLMClient{
		next:       next,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultRetryBaseDelay,
		sleep:      sleepContext,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RetryingLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.next.Complete(ctx, req)
		if err == nil || !errors.Is(err, ErrRateLimited) {
			return resp, err
		}
		if attempt >= c.maxRetries {
			c.logger.Warn("llm rate limit persisted, giving up", "attempts", attempt+1)
			return LLMResponse{}, err
		}
		delay := c.baseDelay << attempt
		c.logger.Info("llm rate limited, retrying", "attempt", attempt+1, "max_retries", c.maxRetries, "delay_ms", delay.Milliseconds())
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return LLMResponse{}, sleepErr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
