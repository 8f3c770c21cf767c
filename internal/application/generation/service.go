package generation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"content-agent-api/internal/config"
	"content-agent-api/internal/domain/entity"
	domainservice "content-agent-api/internal/domain/service"
	"content-agent-api/internal/infrastructure/llm"
	apperrors "content-agent-api/pkg/errors"
	"content-agent-api/pkg/logger"
	"content-agent-api/pkg/tracer"
)

// PhasePlan / PhaseGenerate 两个请求阶段
const (
	PhasePlan     = "plan"
	PhaseGenerate = "generate"
)

// Request 一次生成请求的编排输入。
// 后端无状态：plan 产出的选项由客户端保存，并在 generate 阶段原样回传。
type Request struct {
	Topic          string
	Audience       string
	CTADesired     string
	Platform       string
	Format         string
	Characteristic string
	Sources        []entity.SourceInput

	// Generate 阶段二选一：选中的选项（ID 或全文），或自由文本覆盖
	SelectedOptionID   string
	SelectedOptionText string
	CustomDirection    string

	TraceID   string
	StartedAt time.Time
}

// Service 两阶段生成编排
type Service struct {
	client llm.CompletionClient
	cfg    *config.GenerationConfig
	usage  domainservice.LLMUsageRecorder
}

// NewService 创建生成编排服务；usage 可为 nil（不记录流水）
func NewService(client llm.CompletionClient, cfg *config.GenerationConfig, usage domainservice.LLMUsageRecorder) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
		usage:  usage,
	}
}

// Plan 提出三个编辑方向。
// 模型自述的 sourceReadiness 不可信，返回前会用本地计算结果覆盖。
func (s *Service) Plan(ctx context.Context, req *Request) (*entity.Plan, error) {
	ctx, span := tracer.Start(ctx, "generation.plan")
	defer span.End()

	in := s.promptInput(req)
	readiness := domainservice.EvaluateReadiness(in.Sources, s.cfg.ReadableTextMinChars)

	prompt := BuildPlanPrompt(in, readiness.CanUseReliably)

	resp, err := s.complete(ctx, req, PhasePlan, prompt, PlanSchemaName, PlanSchema(), s.cfg.PlanMaxOutputTokens)
	if err != nil {
		return nil, err
	}

	var plan entity.Plan
	if err := json.Unmarshal([]byte(resp.OutputText), &plan); err != nil {
		logger.Warn(ctx, "plan response is not valid json", "output_len", len(resp.OutputText))
		return nil, apperrors.Wrap(err, apperrors.CodeUpstreamInvalidJSON,
			"the model returned invalid JSON in the plan phase").
			WithDetail("Try again. If it persists, review the prompt or schema.")
	}

	// 以本地计算结果覆盖模型自述的可用性判断
	sourcesProvided := len(in.Sources) > 0
	plan.SourceReadiness.SourcesProvided = sourcesProvided
	plan.SourceReadiness.CanReliablyUseSources = readiness.CanUseReliably
	plan.SourceReadiness.MissingSourceText = readiness.Missing
	if readiness.CanUseReliably {
		plan.SourceReadiness.MessageToUser = "Sources ready for analysis."
	} else {
		plan.SourceReadiness.MessageToUser = "To ensure accuracy, paste the main excerpt of the source."
	}

	return &plan, nil
}

// Generate 产出最终文案。
// 前置条件：素材可用（或未提供素材），且已给出方向（选项或自由文本覆盖）。
func (s *Service) Generate(ctx context.Context, req *Request) (*entity.GeneratedContent, error) {
	ctx, span := tracer.Start(ctx, "generation.generate")
	defer span.End()

	in := s.promptInput(req)
	readiness := domainservice.EvaluateReadiness(in.Sources, s.cfg.ReadableTextMinChars)

	if len(in.Sources) > 0 && !readiness.CanUseReliably {
		return nil, apperrors.New(apperrors.CodeSourcesNeedPaste,
			"source not readable for precise analysis").
			WithDetail("To ensure accuracy, paste the main excerpt of the source (text).")
	}

	customDirection := strings.TrimSpace(req.CustomDirection)

	selectedOption := ""
	if t := strings.TrimSpace(req.SelectedOptionText); t != "" {
		selectedOption = t
	} else if id := strings.TrimSpace(req.SelectedOptionID); id != "" {
		selectedOption = "Option " + id
	}

	if customDirection == "" && selectedOption == "" {
		return nil, apperrors.New(apperrors.CodeMissingDirection,
			"choose an option (A/B/C) or write a custom direction")
	}

	prompt := BuildGeneratePrompt(in, selectedOption, customDirection)

	resp, err := s.complete(ctx, req, PhaseGenerate, prompt, ContentSchemaName, ContentSchema(), s.cfg.ContentMaxOutputTokens)
	if err != nil {
		return nil, err
	}

	var content entity.GeneratedContent
	if err := json.Unmarshal([]byte(resp.OutputText), &content); err != nil {
		logger.Warn(ctx, "generate response is not valid json", "output_len", len(resp.OutputText))
		return nil, apperrors.Wrap(err, apperrors.CodeUpstreamInvalidJSON,
			"the model returned invalid JSON in the generation phase").
			WithDetail("Try again. If it persists, review the prompt or schema.")
	}

	return &content, nil
}

// promptInput 应用缺省值并规范化素材
func (s *Service) promptInput(req *Request) promptInput {
	platform := strings.TrimSpace(req.Platform)
	if platform == "" {
		platform = s.cfg.DefaultPlatform
	}
	format := strings.TrimSpace(req.Format)
	if format == "" {
		format = s.cfg.DefaultFormat
	}
	characteristic := strings.TrimSpace(req.Characteristic)
	if characteristic == "" {
		characteristic = s.cfg.DefaultCharacteristic
	}

	return promptInput{
		Topic:          req.Topic,
		Audience:       req.Audience,
		CTADesired:     req.CTADesired,
		Platform:       platform,
		Format:         format,
		Characteristic: characteristic,
		Sources:        domainservice.NormalizeSources(req.Sources),
	}
}

// complete 执行一次网关调用并记录用量流水
func (s *Service) complete(ctx context.Context, req *Request, phase string, prompt Prompt, schemaName string, schema map[string]any, maxTokens int) (*llm.CompletionResponse, error) {
	providerStart := time.Now()

	resp, err := s.client.Complete(ctx, &llm.CompletionRequest{
		System:          prompt.System,
		User:            prompt.User,
		MaxOutputTokens: maxTokens,
		SchemaName:      schemaName,
		Schema:          schema,
	})
	if err != nil {
		return nil, err
	}

	if s.usage != nil {
		startedAt := req.StartedAt
		if startedAt.IsZero() {
			startedAt = providerStart
		}
		s.usage.Record(ctx, domainservice.LLMUsageInput{
			TraceID:          req.TraceID,
			Phase:            phase,
			Model:            resp.Model,
			PromptTokens:     resp.PromptTokens,
			CompletionTokens: resp.CompletionTokens,
			ProviderMs:       int(time.Since(providerStart).Milliseconds()),
			TotalMs:          int(time.Since(startedAt).Milliseconds()),
		})
	}

	return resp, nil
}
