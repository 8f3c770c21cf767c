package dto

import "content-agent-api/internal/domain/entity"

// GenerateRequest POST /api/generate 请求体。
// 字段均为可选，缺失项由服务端补默认值；sources 接受字符串或对象混合数组。
type GenerateRequest struct {
	Phase          string `json:"phase"`
	Topic          string `json:"topic"`
	Audience       string `json:"audience"`
	CTADesired     string `json:"ctaDesired"`
	Platform       string `json:"platform"`
	Format         string `json:"format"`
	Characteristic string `json:"characteristic"`

	Sources entity.SourceList `json:"sources"`

	// Generate 阶段的创作方向
	SelectedOptionID   string `json:"selectedOptionId"`
	SelectedOptionText string `json:"selectedOptionText"`
	CustomDirection    string `json:"customDirection"`
}
