package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryingClient_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	mock := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("503 unavailable")
			}
			return `{"ok":true}`, nil
		},
	}

	client := llm.NewRetryingClient(mock, 3, time.Second, 0)
	text, err := client.GenerateJSON(context.Background(), "prompt", llm.TierStandard)

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, 3, calls)
}

func TestRetryingClient_ExhaustsAttempts(t *testing.T) {
	calls := 0
	mock := &llmtest.MockLLMClient{
		ChatFunc: func(_ context.Context, _ []llm.Message, _ llm.ModelTier) (string, error) {
			calls++
			return "", errors.New("quota exceeded")
		},
	}

	client := llm.NewRetryingClient(mock, 2, time.Second, 0)
	_, err := client.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, llm.TierLite)

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, llm.ErrAPICall)

	var apiErr *llm.APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 2, apiErr.Attempts)
	assert.Contains(t, apiErr.Error(), "quota exceeded")
}

func TestRetryingClient_PerAttemptTimeout(t *testing.T) {
	mock := &llmtest.MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, _ string, _ llm.ModelTier) (string, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok, "attempt context must carry a deadline")
			assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
			<-ctx.Done()
			return "", ctx.Err()
		},
	}

	client := llm.NewRetryingClient(mock, 1, 50*time.Millisecond, 0)
	_, err := client.GenerateContent(context.Background(), "prompt", llm.TierLite)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryingClient_StopsWhenParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	mock := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			calls++
			cancel()
			return "", errors.New("boom")
		},
	}

	client := llm.NewRetryingClient(mock, 5, time.Second, time.Hour)
	_, err := client.GenerateJSON(ctx, "prompt", llm.TierLite)

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *llm.APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 1, apiErr.Attempts)
}

func TestRetryingClient_Delegates(t *testing.T) {
	closed := false
	mock := &llmtest.MockLLMClient{CloseFunc: func() error { closed = true; return nil }}
	client := llm.NewRetryingClient(mock, 0, 0, -1)

	assert.Equal(t, "mock-model", client.GetModel(llm.TierAdvanced))
	require.NoError(t, client.Close())
	assert.True(t, closed)
}
