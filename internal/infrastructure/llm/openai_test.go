package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-agent-api/internal/config"
	"content-agent-api/pkg/metrics"
)

// 凭证缺失时客户端仍需可构造：进程正常启动，由处理器逐请求返回结构化 500
func TestNewOpenAIClientWithoutCredential(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
	}{
		{name: "empty key", apiKey: ""},
		{name: "blank key", apiKey: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewOpenAIClient(&config.LLMConfig{
				APIKey: tt.apiKey,
				Model:  "gpt-4o-mini",
			})
			require.NotNil(t, client)
			assert.Equal(t, "gpt-4o-mini", client.model)
		})
	}
}

func TestNewOpenAIClientConfigured(t *testing.T) {
	client := NewOpenAIClient(&config.LLMConfig{
		APIKey:  "sk-test",
		BaseURL: "https://example.test/v1",
		Model:   "gpt-4o-mini",
		Timeout: 30 * time.Second,
	})
	require.NotNil(t, client)
	assert.Equal(t, "gpt-4o-mini", client.model)
}

func TestObserveCallRecordsMetrics(t *testing.T) {
	const model = "observe-test-model"

	successBefore := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues(model, "success"))
	errorBefore := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues(model, "error"))

	observeCall(model, time.Now(), nil)
	observeCall(model, time.Now(), errors.New("boom"))
	observeCall(model, time.Now(), errors.New("boom again"))

	assert.Equal(t, successBefore+1, testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues(model, "success")))
	assert.Equal(t, errorBefore+2, testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues(model, "error")))

	count := testutil.CollectAndCount(metrics.LLMCallDuration)
	assert.GreaterOrEqual(t, count, 1)
}
