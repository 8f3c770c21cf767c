package postgres

import (
	"context"
	"fmt"
	"time"

	"content-agent-api/internal/domain/entity"
)

// LLMUsageEventRepository LLM 使用量流水仓储
type LLMUsageEventRepository struct {
	client *Client
}

// NewLLMUsageEventRepository 创建流水仓储
func NewLLMUsageEventRepository(client *Client) *LLMUsageEventRepository {
	return &LLMUsageEventRepository{client: client}
}

// Create 写入一条流水
func (r *LLMUsageEventRepository) Create(ctx context.Context, event *entity.LLMUsageEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(event).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create llm usage event: %w", err)
	}
	return nil
}

// GetTokenUsage 统计时间窗口内的 Token 总量
func (r *LLMUsageEventRepository) GetTokenUsage(ctx context.Context, startInclusive, endExclusive time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.GetTokenUsage")
	defer span.End()

	var total int64
	if err := r.client.db.WithContext(ctx).Model(&entity.LLMUsageEvent{}).
		Where("created_at >= ? AND created_at < ?", startInclusive, endExclusive).
		Select("COALESCE(SUM(COALESCE(tokens_prompt,0) + COALESCE(tokens_completion,0)),0)").
		Scan(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get llm usage: %w", err)
	}
	return total, nil
}

// GetCostUSD 统计时间窗口内的累计成本估算
func (r *LLMUsageEventRepository) GetCostUSD(ctx context.Context, startInclusive, endExclusive time.Time) (float64, error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.GetCostUSD")
	defer span.End()

	var total float64
	if err := r.client.db.WithContext(ctx).Model(&entity.LLMUsageEvent{}).
		Where("created_at >= ? AND created_at < ?", startInclusive, endExclusive).
		Select("COALESCE(SUM(cost_usd),0)").
		Scan(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get llm cost: %w", err)
	}
	return total, nil
}
