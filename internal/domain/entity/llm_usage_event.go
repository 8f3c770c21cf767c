package entity

import "time"

// LLMUsageEvent 一次 LLM 调用的计费与性能流水
type LLMUsageEvent struct {
	ID               string    `json:"id" gorm:"type:uuid;primaryKey"`
	TraceID          string    `json:"trace_id" gorm:"type:varchar(128);index;not null"`
	Phase            string    `json:"phase" gorm:"type:varchar(16);not null"`
	Model            string    `json:"model" gorm:"type:varchar(64);not null"`
	TokensPrompt     int       `json:"tokens_prompt" gorm:"not null;default:0"`
	TokensCompletion int       `json:"tokens_completion" gorm:"not null;default:0"`
	CostUSD          float64   `json:"cost_usd" gorm:"not null;default:0"`
	ProviderMs       int       `json:"provider_ms" gorm:"not null;default:0"`
	TotalMs          int       `json:"total_ms" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (LLMUsageEvent) TableName() string {
	return "llm_usage_events"
}
