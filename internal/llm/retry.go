package llm

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RetryingClient wraps a Client with a per-attempt timeout and linear
// backoff (attempt × delay) across a capped number of attempts.
type RetryingClient struct {
	inner       Client
	maxAttempts int
	timeout     time.Duration
	delay       time.Duration
	sleep       func(context.Context, time.Duration) error
}

// NewRetryingClient wraps inner. Non-positive values fall back to the defaults.
func NewRetryingClient(inner Client, maxAttempts int, timeout, delay time.Duration) *RetryingClient {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if delay < 0 {
		delay = DefaultRetryDelay
	}
	return &RetryingClient{
		inner:       inner,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		delay:       delay,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *RetryingClient) do(ctx context.Context, op string, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attempts = attempt
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, err := call(attemptCtx)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == c.maxAttempts {
			break
		}
		log.Printf("[llm] %s attempt %d/%d failed: %v", op, attempt, c.maxAttempts, err)
		if err := c.sleep(ctx, time.Duration(attempt)*c.delay); err != nil {
			break
		}
	}
	return "", &APICallError{
		Message:  fmt.Sprintf("%s failed after retries", op),
		Attempts: attempts,
		Cause:    lastErr,
	}
}

// GenerateContent implements Client
func (c *RetryingClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.do(ctx, "generate content", func(ctx context.Context) (string, error) {
		return c.inner.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON implements Client
func (c *RetryingClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.do(ctx, "generate json", func(ctx context.Context) (string, error) {
		return c.inner.GenerateJSON(ctx, prompt, tier)
	})
}

// Chat implements Client
func (c *RetryingClient) Chat(ctx context.Context, messages []Message, tier ModelTier) (string, error) {
	return c.do(ctx, "chat", func(ctx context.Context) (string, error) {
		return c.inner.Chat(ctx, messages, tier)
	})
}

// GetModel implements Client
func (c *RetryingClient) GetModel(tier ModelTier) string {
	return c.inner.GetModel(tier)
}

// Close implements Client
func (c *RetryingClient) Close() error {
	return c.inner.Close()
}
