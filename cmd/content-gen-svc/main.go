// Package main 内容生成服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"content-agent-api/internal/application/generation"
	"content-agent-api/internal/config"
	"content-agent-api/internal/infrastructure/llm"
	"content-agent-api/internal/infrastructure/persistence/postgres"
	"content-agent-api/internal/infrastructure/persistence/redis"
	"content-agent-api/internal/interfaces/http/handler"
	"content-agent-api/internal/interfaces/http/middleware"
	"content-agent-api/internal/interfaces/http/router"
	"content-agent-api/internal/observability/usage"
	"content-agent-api/pkg/logger"
	"content-agent-api/pkg/tracer"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting content-gen-svc",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
		"model", cfg.LLM.Model,
	)

	if !cfg.LLM.Configured() {
		// 不中断启动：缺失凭证时 /api/generate 返回结构化 500
		log.Warn("llm api key not configured, generation requests will fail")
	}

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// Redis（可选，仅用于限流）
	var redisClient *redis.Client
	var rateLimiter middleware.RateLimiter
	if cfg.Cache.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			logger.Fatal(ctx, "failed to connect redis", err)
		}
		defer redisClient.Close()
		rateLimiter = redis.NewRateLimiter(redisClient)
	}

	// Postgres（可选，仅承载 LLM 使用量流水）
	var pgClient *postgres.Client
	var usageRepo *postgres.LLMUsageEventRepository
	if cfg.Database.Postgres.Enabled {
		pgClient, err = postgres.NewClient(&cfg.Database.Postgres)
		if err != nil {
			logger.Fatal(ctx, "failed to connect postgres", err)
		}
		defer pgClient.Close()
		usageRepo = postgres.NewLLMUsageEventRepository(pgClient)
	}

	// LLM 网关：提供商客户端 + 重试装饰器。
	// 凭证缺失时客户端仍可构造，/api/generate 由处理器逐请求拦截并返回 500。
	openaiClient := llm.NewOpenAIClient(&cfg.LLM)
	completionClient := llm.NewRetryClient(openaiClient, llm.RetryPolicy{
		MaxRetries: cfg.LLM.MaxRetries,
		BaseDelay:  cfg.LLM.RetryBaseDelay,
	})

	// 用量记录与编排服务
	recorder := usage.NewRecorder(cfg.LLM.Pricing, usageRepo)
	genService := generation.NewService(completionClient, &cfg.Generation, recorder)

	// HTTP 层
	generationHandler := handler.NewGenerationHandler(genService, cfg)
	healthHandler := handler.NewHealthHandler(cfg, pgClient, redisClient)
	r := router.New(cfg, generationHandler, healthHandler, rateLimiter)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
