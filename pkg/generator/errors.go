package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

// ErrorKind は生成失敗の分類です。
type ErrorKind int

const (
	KindUnclassified ErrorKind = iota
	KindConfigurationMissing
	KindEmptyResponse
	KindRateLimited
	KindDailyQuotaExceeded
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfigurationMissing:
		return "configuration_missing"
	case KindEmptyResponse:
		return "empty_response"
	case KindRateLimited:
		return "rate_limited"
	case KindDailyQuotaExceeded:
		return "daily_quota_exceeded"
	case KindTransport:
		return "transport_error"
	default:
		return "unclassified"
	}
}

// 分類ごとの sentinel エラー。errors.Is で判定できます。
var (
	ErrConfigurationMissing = errors.New("gemini API key is not configured")
	ErrEmptyResponse        = errors.New("no image in response")
	ErrRateLimited          = errors.New("rate limited by image API")
	ErrDailyQuotaExceeded   = errors.New("daily quota exceeded")
	ErrTransport            = errors.New("connection to image API failed")
	ErrUnclassified         = errors.New("image generation failed")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfigurationMissing:
		return ErrConfigurationMissing
	case KindEmptyResponse:
		return ErrEmptyResponse
	case KindRateLimited:
		return ErrRateLimited
	case KindDailyQuotaExceeded:
		return ErrDailyQuotaExceeded
	case KindTransport:
		return ErrTransport
	default:
		return ErrUnclassified
	}
}

// GenerationError は 1 モデル分の試行が失敗したときのエラーです。
type GenerationError struct {
	Kind    ErrorKind
	Model   string
	Attempt int
	// Detail は API が画像の代わりに返した説明テキストです。
	Detail string
	Err    error
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("%s (model=%s, attempt=%d)", e.Kind, e.Model, e.Attempt)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Classify はエラーを分類します。
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnclassified
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}

	switch {
	case errors.Is(err, ErrConfigurationMissing):
		return KindConfigurationMissing
	case errors.Is(err, ErrEmptyResponse):
		return KindEmptyResponse
	case errors.Is(err, ErrDailyQuotaExceeded):
		return KindDailyQuotaExceeded
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrTransport):
		return KindTransport
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return classifyAPIError(*apiErrPtr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}

	return classifyMessage(err.Error())
}

func classifyAPIError(e genai.APIError) ErrorKind {
	text := e.Message + " " + e.Status
	if len(e.Details) > 0 {
		text += " " + fmt.Sprint(e.Details)
	}

	if isDailyQuota(text) {
		return KindDailyQuotaExceeded
	}
	if e.Code == http.StatusTooManyRequests || strings.EqualFold(e.Status, "RESOURCE_EXHAUSTED") {
		return KindRateLimited
	}
	if e.Code >= http.StatusInternalServerError {
		return KindTransport
	}
	return classifyMessage(text)
}

var (
	rateLimitSignatures = []string{"resource_exhausted", "resource exhausted", "rate limit", "too many requests", "quota"}
	transportSignatures = []string{"rpc failed", "xhr error", "unavailable", "internal error", "internal server error", "connection refused", "connection reset"}
	dailySignatures     = []string{"perday", "per day", "per_day", "daily"}

	// ステータスコードは単語として現れたときだけ数える（"5000 tokens" などは除外）
	rateLimitCodePattern = regexp.MustCompile(`\b429\b`)
	transportCodePattern = regexp.MustCompile(`\b50[0234]\b`)
)

func classifyMessage(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	switch {
	case isDailyQuota(lower):
		return KindDailyQuotaExceeded
	case rateLimitCodePattern.MatchString(lower), containsAny(lower, rateLimitSignatures):
		return KindRateLimited
	case transportCodePattern.MatchString(lower), containsAny(lower, transportSignatures):
		return KindTransport
	default:
		return KindUnclassified
	}
}

// isDailyQuota は 1 日あたりの上限に達したことを示す署名を探します。
func isDailyQuota(text string) bool {
	return containsAny(strings.ToLower(text), dailySignatures)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
