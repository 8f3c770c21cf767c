// Package usage 记录 LLM 调用的用量、成本与性能数据
package usage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"content-agent-api/internal/config"
	"content-agent-api/internal/domain/entity"
	"content-agent-api/internal/domain/service"
	"content-agent-api/internal/infrastructure/persistence/postgres"
	"content-agent-api/pkg/logger"
	"content-agent-api/pkg/metrics"
)

// Recorder 实现 service.LLMUsageRecorder。
// 指标与日志始终记录；流水落库仅在配置了 Postgres 时进行，且失败不影响主流程。
type Recorder struct {
	pricing config.PricingConfig
	repo    *postgres.LLMUsageEventRepository
}

// NewRecorder 创建用量记录器，repo 可为 nil（未启用数据库）
func NewRecorder(pricing config.PricingConfig, repo *postgres.LLMUsageEventRepository) *Recorder {
	return &Recorder{pricing: pricing, repo: repo}
}

// EstimateCostUSD 按单价估算一次调用的成本
func (r *Recorder) EstimateCostUSD(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1_000_000*r.pricing.InputPer1M +
		float64(completionTokens)/1_000_000*r.pricing.OutputPer1M
}

// Record 记录一次 LLM 调用
func (r *Recorder) Record(ctx context.Context, in service.LLMUsageInput) {
	cost := r.EstimateCostUSD(in.PromptTokens, in.CompletionTokens)

	metrics.LLMTokensUsed.WithLabelValues(in.Model, "prompt").Add(float64(in.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(in.Model, "completion").Add(float64(in.CompletionTokens))
	metrics.LLMCostUSD.WithLabelValues(in.Model).Add(cost)

	logger.Info(ctx, "llm cost",
		"phase", in.Phase,
		"model", in.Model,
		"tokens_in", in.PromptTokens,
		"tokens_out", in.CompletionTokens,
		"est_cost_usd", cost,
	)
	logger.Info(ctx, "llm perf",
		"phase", in.Phase,
		"provider_ms", in.ProviderMs,
		"total_ms", in.TotalMs,
	)

	if r.repo == nil {
		return
	}

	event := &entity.LLMUsageEvent{
		ID:               uuid.NewString(),
		TraceID:          in.TraceID,
		Phase:            in.Phase,
		Model:            in.Model,
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		CostUSD:          cost,
		ProviderMs:       in.ProviderMs,
		TotalMs:          in.TotalMs,
		CreatedAt:        time.Now(),
	}
	if err := r.repo.Create(ctx, event); err != nil {
		logger.Warn(ctx, "failed to persist llm usage event", "error", err)
	}
}

var _ service.LLMUsageRecorder = (*Recorder)(nil)
