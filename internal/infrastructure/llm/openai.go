package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"content-agent-api/internal/config"
	"content-agent-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// OpenAIClient 基于官方 openai-go SDK 的提供商客户端（chat completions）
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient 创建 OpenAI 客户端。
// SDK 自带的重试被显式关闭：重试策略由本包的 RetryClient 统一负责。
// 凭证缺失不阻止构造：处理器在每个请求上检查凭证并返回结构化 500，服务进程保持可用。
func NewOpenAIClient(cfg *config.LLMConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if cfg.Configured() {
		opts = append(opts, option.WithAPIKey(strings.TrimSpace(cfg.APIKey)))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// observeCall 记录每次提供商调用的计数与耗时，重试的每一次尝试单独计数
func observeCall(model string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(model, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
}

// Complete 执行一次结构化补全调用
func (c *OpenAIClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	ctx, span := tracer.Start(ctx, "llm.complete")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}
	if req.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxOutputTokens))
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Strict: openai.Bool(true),
					Schema: req.Schema,
				},
			},
		}
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	observeCall(c.model, start, err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty choices")
	}

	out := &CompletionResponse{
		OutputText:       resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", out.PromptTokens),
		attribute.Int("llm.completion_tokens", out.CompletionTokens),
	)
	return out, nil
}
