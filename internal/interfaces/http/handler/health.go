package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"content-agent-api/internal/config"
	"content-agent-api/internal/infrastructure/persistence/postgres"
	"content-agent-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	cfg   *config.Config
	pg    *postgres.Client
	redis *redis.Client
}

// NewHealthHandler 创建健康检查处理器；pg 与 redis 均可为 nil
func NewHealthHandler(cfg *config.Config, pg *postgres.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		cfg:   cfg,
		pg:    pg,
		redis: redisClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.cfg.App.Version,
	})
}

// Ready 就绪检查接口。
// LLM 凭证为必需项；Postgres 与 Redis 为可选依赖，故障仅标记 degraded。
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"llm":      {Status: "unknown"},
		"postgres": {Status: "disabled"},
		"redis":    {Status: "disabled"},
	}

	ready := true

	// LLM 凭证（必需）
	if h.cfg.LLM.Configured() {
		checks["llm"].Status = "ok"
	} else {
		checks["llm"].Status = "missing"
		checks["llm"].Error = "llm api key not configured"
		ready = false
	}

	// Postgres（可选）
	if h.pg != nil {
		start := time.Now()
		err := h.pg.HealthCheck(ctx)
		checks["postgres"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["postgres"].Status = "degraded"
			checks["postgres"].Error = err.Error()
		} else {
			checks["postgres"].Status = "ok"
		}
	}

	// Redis（可选）
	if h.redis != nil {
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["redis"].Status = "degraded"
			checks["redis"].Error = err.Error()
		} else {
			checks["redis"].Status = "ok"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
