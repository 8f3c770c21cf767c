package llm

import (
	"errors"
	"net/http"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"

	apperrors "content-agent-api/pkg/errors"
)

// providerError 构造携带 HTTP 上下文的提供商错误，保证 Error() 可安全调用
func providerError(status int, code, message string) *openai.Error {
	req, _ := http.NewRequest(http.MethodPost, "https://api.openai.com/v1/chat/completions", nil)
	return &openai.Error{
		StatusCode: status,
		Code:       code,
		Message:    message,
		Request:    req,
		Response:   &http.Response{StatusCode: status},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantPublicCode apperrors.ErrorCode
		wantRetryable  bool
		wantQuota      bool
		wantRateLimit  bool
	}{
		{
			name:           "429 with quota code",
			err:            providerError(429, "insufficient_quota", "You exceeded your current quota"),
			wantPublicCode: apperrors.CodeInsufficientQuota,
			wantRetryable:  false,
			wantQuota:      true,
		},
		{
			name:           "429 with billing message",
			err:            providerError(429, "", "billing hard limit reached"),
			wantPublicCode: apperrors.CodeInsufficientQuota,
			wantRetryable:  false,
			wantQuota:      true,
		},
		{
			name:           "429 with rate limit code",
			err:            providerError(429, "rate_limit_exceeded", "Rate limit reached for requests"),
			wantPublicCode: apperrors.CodeRateLimited,
			wantRetryable:  true,
			wantRateLimit:  true,
		},
		{
			name:           "429 with too many requests message",
			err:            providerError(429, "", "Too many requests, slow down"),
			wantPublicCode: apperrors.CodeRateLimited,
			wantRetryable:  true,
			wantRateLimit:  true,
		},
		{
			name:           "500 server error",
			err:            providerError(500, "server_error", "internal error"),
			wantPublicCode: apperrors.CodeTemporaryError,
			wantRetryable:  true,
		},
		{
			name:           "503 overloaded",
			err:            providerError(503, "", "The engine is currently overloaded"),
			wantPublicCode: apperrors.CodeTemporaryError,
			wantRetryable:  true,
		},
		{
			name:           "401 invalid key",
			err:            providerError(401, "invalid_api_key", "Incorrect API key provided"),
			wantPublicCode: apperrors.CodeUnknownError,
			wantRetryable:  false,
		},
		{
			name:           "plain error",
			err:            errors.New("dial tcp: connection refused"),
			wantPublicCode: apperrors.CodeUnknownError,
			wantRetryable:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Classify(tt.err)

			assert.Equal(t, tt.wantPublicCode, info.PublicCode)
			assert.Equal(t, tt.wantRetryable, info.IsRetryable)
			assert.Equal(t, tt.wantQuota, info.IsQuotaOrBilling)
			assert.Equal(t, tt.wantRateLimit, info.IsRateLimit)
		})
	}
}

func TestClassifyQuotaWinsOverRateLimit(t *testing.T) {
	// 同时命中配额与速率两种特征时，配额优先且不可重试
	info := Classify(providerError(429, "", "rate limit: insufficient_quota for this billing period"))

	assert.Equal(t, apperrors.CodeInsufficientQuota, info.PublicCode)
	assert.True(t, info.IsQuotaOrBilling)
}

func TestClassifyKeepsRawProviderFields(t *testing.T) {
	info := Classify(providerError(429, "rate_limit_exceeded", "Rate limit reached"))

	assert.Equal(t, 429, info.Status)
	assert.Equal(t, "rate_limit_exceeded", info.Code)
	assert.Equal(t, "Rate limit reached", info.Message)
}
