// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"content-agent-api/internal/application/generation"
	"content-agent-api/internal/config"
	"content-agent-api/internal/domain/entity"
	"content-agent-api/internal/infrastructure/llm"
	"content-agent-api/internal/interfaces/http/dto"
	apperrors "content-agent-api/pkg/errors"
	"content-agent-api/pkg/logger"
	"content-agent-api/pkg/metrics"
)

// GenerationHandler 两阶段内容生成处理器
type GenerationHandler struct {
	service *generation.Service
	cfg     *config.Config
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(service *generation.Service, cfg *config.Config) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		cfg:     cfg,
	}
}

// planResponse / contentResponse 在业务负载上内联回显 traceId
type planResponse struct {
	*entity.Plan
	TraceID string `json:"traceId"`
}

type contentResponse struct {
	*entity.GeneratedContent
	TraceID string `json:"traceId"`
}

// Generate 内容生成接口
// @Summary 两阶段内容生成
// @Description phase=plan 产出三个编辑方向；phase=generate 产出最终内容
// @Tags Generation
// @Accept json
// @Produce json
// @Router /api/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	startedAt := time.Now()
	ctx := c.Request.Context()

	var body dto.GenerateRequest
	// 请求体无法解析时按空请求处理，由后续校验给出确定性错误
	_ = c.ShouldBindJSON(&body)

	topic := strings.TrimSpace(body.Topic)
	if topic == "" {
		dto.Fail(c, http.StatusBadRequest, "topic is required")
		return
	}

	if !h.cfg.LLM.Configured() {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "OPENAI_API_KEY not found in environment",
			Detail:  "Check the environment variables of the deployment and redeploy.",
			TraceID: c.GetString("trace_id"),
		})
		return
	}

	phase := strings.TrimSpace(body.Phase)
	if phase == "" {
		phase = generation.PhaseGenerate
	}

	req := h.buildRequest(c, &body, topic, startedAt)

	switch phase {
	case generation.PhasePlan:
		plan, err := h.service.Plan(ctx, req)
		if err != nil {
			h.fail(c, generation.PhasePlan, startedAt, err)
			return
		}
		h.succeed(c, generation.PhasePlan, startedAt)
		c.JSON(http.StatusOK, planResponse{Plan: plan, TraceID: req.TraceID})
	case generation.PhaseGenerate:
		content, err := h.service.Generate(ctx, req)
		if err != nil {
			h.fail(c, generation.PhaseGenerate, startedAt, err)
			return
		}
		h.succeed(c, generation.PhaseGenerate, startedAt)
		c.JSON(http.StatusOK, contentResponse{GeneratedContent: content, TraceID: req.TraceID})
	default:
		dto.FailCode(c, http.StatusBadRequest, apperrors.CodeInvalidPhase,
			"invalid phase. Use 'plan' or 'generate'.")
	}
}

// buildRequest 组装编排输入。
// platform/format/characteristic 的缺省值由编排服务统一补齐。
func (h *GenerationHandler) buildRequest(c *gin.Context, body *dto.GenerateRequest, topic string, startedAt time.Time) *generation.Request {
	return &generation.Request{
		Topic:          topic,
		Audience:       body.Audience,
		CTADesired:     body.CTADesired,
		Platform:       body.Platform,
		Format:         body.Format,
		Characteristic: body.Characteristic,
		Sources:        body.Sources,

		SelectedOptionID:   body.SelectedOptionID,
		SelectedOptionText: body.SelectedOptionText,
		CustomDirection:    body.CustomDirection,

		TraceID:   c.GetString("trace_id"),
		StartedAt: startedAt,
	}
}

// fail 统一错误出口：本地校验错误走 AppError，提供商错误走分类器
func (h *GenerationHandler) fail(c *gin.Context, phase string, startedAt time.Time, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		metrics.GenerationTotal.WithLabelValues(phase, string(appErr.Code)).Inc()
		metrics.GenerationDuration.WithLabelValues(phase).Observe(time.Since(startedAt).Seconds())
		dto.FailApp(c, appErr)
		return
	}

	info := llm.Classify(err)
	logger.Error(ctx, "generate error", err,
		"phase", phase,
		"status", info.Status,
		"code", info.Code,
	)
	metrics.GenerationTotal.WithLabelValues(phase, string(info.PublicCode)).Inc()
	metrics.GenerationDuration.WithLabelValues(phase).Observe(time.Since(startedAt).Seconds())

	switch info.PublicCode {
	case apperrors.CodeInsufficientQuota:
		dto.FailDetail(c, http.StatusTooManyRequests, apperrors.CodeInsufficientQuota,
			"Usage or billing limit reached at the provider.",
			"Check the project billing and limits, then try again.")
	case apperrors.CodeRateLimited:
		dto.FailDetail(c, http.StatusTooManyRequests, apperrors.CodeRateLimited,
			"Too many attempts in a row (rate limit).",
			"Wait a few seconds and try again.")
	case apperrors.CodeTemporaryError:
		dto.FailDetail(c, http.StatusServiceUnavailable, apperrors.CodeTemporaryError,
			"Temporary instability while generating content.",
			"Try again in a few seconds.")
	default:
		dto.FailDetail(c, http.StatusInternalServerError, apperrors.CodeUnknownError,
			"Failed to generate content", info.Message)
	}
}

func (h *GenerationHandler) succeed(c *gin.Context, phase string, startedAt time.Time) {
	metrics.GenerationTotal.WithLabelValues(phase, "success").Inc()
	metrics.GenerationDuration.WithLabelValues(phase).Observe(time.Since(startedAt).Seconds())
}
