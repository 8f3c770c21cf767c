// Package config 提供配置加载和管理功能
package config

import (
	"strings"
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Generation    GenerationConfig    `yaml:"generation" mapstructure:"generation"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// LLMConfig LLM 提供商配置
type LLMConfig struct {
	// APIKey 提供商 API 凭证，缺失时不发起任何外呼
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL 兼容 OpenAI 协议的自定义网关地址，留空使用官方地址
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Model 默认模型
	Model string `yaml:"model" mapstructure:"model"`
	// MaxRetries 单次请求内的最大重试次数（不含首次调用）
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// RetryBaseDelay 重试退避基准间隔
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
	// Timeout 单次调用超时
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Pricing 成本估算单价
	Pricing PricingConfig `yaml:"pricing" mapstructure:"pricing"`
}

// Configured 判断凭证是否已配置
func (c *LLMConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// PricingConfig Token 单价（USD / 1M tokens）
type PricingConfig struct {
	InputPer1M  float64 `yaml:"input_per_1m" mapstructure:"input_per_1m"`
	OutputPer1M float64 `yaml:"output_per_1m" mapstructure:"output_per_1m"`
}

// GenerationConfig 内容生成配置
type GenerationConfig struct {
	// DefaultPlatform 缺省投放平台
	DefaultPlatform string `yaml:"default_platform" mapstructure:"default_platform"`
	// DefaultFormat 缺省内容形态
	DefaultFormat string `yaml:"default_format" mapstructure:"default_format"`
	// DefaultCharacteristic 缺省语气/人设
	DefaultCharacteristic string `yaml:"default_characteristic" mapstructure:"default_characteristic"`
	// ReadableTextMinChars 判定文本素材可直接引用的最小字符数
	ReadableTextMinChars int `yaml:"readable_text_min_chars" mapstructure:"readable_text_min_chars"`
	// PlanMaxOutputTokens Plan 阶段输出 Token 上限
	PlanMaxOutputTokens int `yaml:"plan_max_output_tokens" mapstructure:"plan_max_output_tokens"`
	// ContentMaxOutputTokens Generate 阶段输出 Token 上限
	ContentMaxOutputTokens int `yaml:"content_max_output_tokens" mapstructure:"content_max_output_tokens"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置（限流后端，可选）
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// PostgresConfig PostgreSQL 配置（仅承载 LLM 使用量流水，可选）
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}
