package llm

import (
	"errors"
	"regexp"

	"github.com/openai/openai-go"

	apperrors "content-agent-api/pkg/errors"
)

var (
	rateLimitPattern = regexp.MustCompile(`(?i)rate limit|too many requests`)
	quotaPattern     = regexp.MustCompile(`(?i)insufficient_quota|billing|quota`)
)

// Outcome 一次失败调用的分类结果。
// 分类逻辑集中在这里，重试循环和 HTTP 映射共用同一份判定。
type Outcome struct {
	Status  int
	Code    string
	Message string

	IsRateLimit      bool
	IsQuotaOrBilling bool
	IsRetryable      bool

	// PublicCode 暴露给客户端的稳定错误码
	PublicCode apperrors.ErrorCode
}

// Classify 对提供商错误进行分类：
//   - 429 + 配额/账单特征 -> insufficient_quota，不重试
//   - 429 + 速率特征      -> rate_limited，可重试
//   - 5xx                -> temporary_error，可重试
//   - 其它               -> unknown_error，不重试
func Classify(err error) Outcome {
	var status int
	var code, message string

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
		code = apiErr.Code
		message = apiErr.Message
	} else if err != nil {
		message = err.Error()
	}

	is429 := status == 429

	isRateLimit := is429 &&
		(code == "rate_limit_exceeded" || code == "rate_limited" || rateLimitPattern.MatchString(message))

	isQuotaOrBilling := is429 &&
		(code == "insufficient_quota" || quotaPattern.MatchString(message))

	is5xx := status >= 500 && status <= 599

	publicCode := apperrors.CodeUnknownError
	switch {
	case isQuotaOrBilling:
		publicCode = apperrors.CodeInsufficientQuota
	case isRateLimit:
		publicCode = apperrors.CodeRateLimited
	case is5xx:
		publicCode = apperrors.CodeTemporaryError
	}

	return Outcome{
		Status:           status,
		Code:             code,
		Message:          message,
		IsRateLimit:      isRateLimit,
		IsQuotaOrBilling: isQuotaOrBilling,
		IsRetryable:      isRateLimit || is5xx,
		PublicCode:       publicCode,
	}
}
