// Package llm 提供 LLM 提供商网关：外呼、错误分类与重试
package llm

import "context"

// CompletionRequest 一次结构化补全请求
type CompletionRequest struct {
	System string
	User   string

	// MaxOutputTokens 输出 Token 上限，<=0 时由提供商决定
	MaxOutputTokens int

	// SchemaName/Schema 通过 response_format=json_schema 强约束输出；
	// 约束解码不保证可靠，调用方仍需把解析失败当作一等错误处理。
	SchemaName string
	Schema     map[string]any
}

// CompletionResponse 一次补全的产出与用量
type CompletionResponse struct {
	OutputText string
	Model      string

	PromptTokens     int
	CompletionTokens int
}

// CompletionClient 抽象提供商客户端，便于替换/Mock
type CompletionClient interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}
