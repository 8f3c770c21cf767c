package llm

import (
	"context"
	"math/rand"
	"time"

	"content-agent-api/pkg/logger"
	"content-agent-api/pkg/metrics"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 500 * time.Millisecond
	defaultJitterCap  = 250 * time.Millisecond
)

// RetryPolicy 重试策略；零值字段使用默认值
type RetryPolicy struct {
	// MaxRetries 最大重试次数（不含首次调用），负数视为 0
	MaxRetries int
	// BaseDelay 指数退避基准：第 n 次重试前等待 BaseDelay * 2^(n-1) + jitter
	BaseDelay time.Duration
	// JitterCap 随机抖动上限（半开区间 [0, JitterCap)），负数禁用抖动
	JitterCap time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries == 0 {
		p.MaxRetries = defaultMaxRetries
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.JitterCap == 0 {
		p.JitterCap = defaultJitterCap
	}
	if p.JitterCap < 0 {
		p.JitterCap = 0
	}
	return p
}

// NewRetryClient 为底层客户端套上有界重试。
// 配额/账单类失败立即放弃：重试只会继续消耗配额，不可能成功。
// 速率限制与 5xx 退避后重试；其余错误原样上抛。
// 总调用次数不超过 MaxRetries + 1。
func NewRetryClient(next CompletionClient, policy RetryPolicy) CompletionClient {
	return &retryClient{next: next, policy: policy.normalized()}
}

type retryClient struct {
	next   CompletionClient
	policy RetryPolicy
}

func (r *retryClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	attempt := 0

	for {
		resp, err := r.next.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}

		info := Classify(err)
		attempt++

		if info.IsQuotaOrBilling {
			return nil, err
		}
		if !info.IsRetryable || attempt > r.policy.MaxRetries {
			return nil, err
		}

		wait := r.policy.BaseDelay * (1 << (attempt - 1))
		if r.policy.JitterCap > 0 {
			wait += time.Duration(rand.Int63n(int64(r.policy.JitterCap)))
		}

		metrics.LLMRetriesTotal.WithLabelValues(string(info.PublicCode)).Inc()
		logger.Warn(ctx, "llm call failed, retrying",
			"attempt", attempt,
			"max_retries", r.policy.MaxRetries,
			"status", info.Status,
			"code", info.Code,
			"wait_ms", wait.Milliseconds(),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}
