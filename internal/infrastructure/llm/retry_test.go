package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient 固定返回同一结果的桩客户端
type stubClient struct {
	calls int
	resp  *CompletionResponse
	err   error
}

func (s *stubClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// fastPolicy 退避极小且禁用抖动，让测试保持毫秒级
func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		JitterCap:  -1,
	}
}

func TestRetrySuccessPassesThrough(t *testing.T) {
	stub := &stubClient{resp: &CompletionResponse{OutputText: "{}", Model: "gpt-4o-mini"}}
	client := NewRetryClient(stub, fastPolicy(3))

	resp, err := client.Complete(context.Background(), &CompletionRequest{})

	require.NoError(t, err)
	assert.Equal(t, "{}", resp.OutputText)
	assert.Equal(t, 1, stub.calls)
}

func TestRetryNeverRetriesQuota(t *testing.T) {
	quotaErr := providerError(429, "insufficient_quota", "You exceeded your current quota")
	stub := &stubClient{err: quotaErr}
	client := NewRetryClient(stub, fastPolicy(3))

	_, err := client.Complete(context.Background(), &CompletionRequest{})

	require.Error(t, err)
	assert.Equal(t, quotaErr, err)
	assert.Equal(t, 1, stub.calls)
}

func TestRetryBoundsOnRateLimit(t *testing.T) {
	stub := &stubClient{err: providerError(429, "rate_limit_exceeded", "Rate limit reached")}
	client := NewRetryClient(stub, fastPolicy(3))

	_, err := client.Complete(context.Background(), &CompletionRequest{})

	require.Error(t, err)
	// 1 次首调 + 3 次重试
	assert.Equal(t, 4, stub.calls)
}

func TestRetryBoundsOnServerError(t *testing.T) {
	stub := &stubClient{err: providerError(503, "", "The engine is currently overloaded")}
	client := NewRetryClient(stub, fastPolicy(2))

	_, err := client.Complete(context.Background(), &CompletionRequest{})

	require.Error(t, err)
	assert.Equal(t, 3, stub.calls)
}

func TestRetrySkipsUnknownErrors(t *testing.T) {
	unknownErr := providerError(401, "invalid_api_key", "Incorrect API key provided")
	stub := &stubClient{err: unknownErr}
	client := NewRetryClient(stub, fastPolicy(3))

	_, err := client.Complete(context.Background(), &CompletionRequest{})

	require.Error(t, err)
	assert.Equal(t, unknownErr, err)
	assert.Equal(t, 1, stub.calls)
}

func TestRetryZeroValuePolicyUsesDefaults(t *testing.T) {
	p := RetryPolicy{}.normalized()

	assert.Equal(t, defaultMaxRetries, p.MaxRetries)
	assert.Equal(t, defaultBaseDelay, p.BaseDelay)
	assert.Equal(t, defaultJitterCap, p.JitterCap)
}

func TestRetryNegativeMaxRetriesMeansSingleAttempt(t *testing.T) {
	stub := &stubClient{err: providerError(429, "rate_limit_exceeded", "Rate limit reached")}
	client := NewRetryClient(stub, RetryPolicy{MaxRetries: -1, BaseDelay: time.Millisecond, JitterCap: -1})

	_, err := client.Complete(context.Background(), &CompletionRequest{})

	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestRetryAbortsOnContextCancel(t *testing.T) {
	stub := &stubClient{err: providerError(500, "", "internal error")}
	client := NewRetryClient(stub, RetryPolicy{MaxRetries: 3, BaseDelay: time.Minute, JitterCap: -1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Complete(ctx, &CompletionRequest{})
		done <- err
	}()

	// 等首次调用失败进入退避后取消
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, stub.calls)
	case <-time.After(2 * time.Second):
		t.Fatal("retry loop did not honor context cancellation")
	}
}
