package errors

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// Fallback reasons reported in metrics and logs.
const (
	ReasonNotConfigured = "not_configured"
	ReasonAPIKey        = "api_key"
	ReasonTimeout       = "timeout"
	ReasonQuota         = "quota"
	ReasonModelError    = "model_error"
	ReasonParseFailure  = "parse_failure"
	ReasonInvalidBody   = "invalid_request"
)

// Classify normalizes any error into a StandardError. Typed errors pass
// through; everything else is matched on well-known provider messages.
func Classify(provider string, err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewModelTimeoutError(provider, 0)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return NewModelTimeoutError(provider, 0)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "api key", "api_key", "apikey", "unauthorized", "unauthenticated", "permission denied", "invalid x-api-key"):
		return NewCredentialRejectedError(provider, err)
	case containsAny(msg, "quota", "rate limit", "rate_limit", "resource_exhausted", "too many requests"):
		return NewQuotaExceededError(provider, err)
	case containsAny(msg, "connection refused", "no such host", "connection reset", "eof"):
		return NewModelUnavailableError(provider, err)
	}

	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// FromHTTPStatus maps a provider HTTP status onto the taxonomy.
func FromHTTPStatus(provider string, status int, err error) *StandardError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewCredentialRejectedError(provider, err)
	case status == http.StatusTooManyRequests:
		return NewQuotaExceededError(provider, err)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return NewModelUnavailableError(provider, err)
	case status >= 500:
		return NewModelUnavailableError(provider, err)
	case status >= 400:
		return NewModelBadResponseError(provider, err)
	default:
		return Classify(provider, err)
	}
}

// Reason returns the fallback reason label for an error.
func Reason(err *StandardError) string {
	if err == nil {
		return ReasonModelError
	}
	switch err.Code {
	case ErrCodeCredentialMissing:
		return ReasonNotConfigured
	case ErrCodeCredentialRejected:
		return ReasonAPIKey
	case ErrCodeModelTimeout:
		return ReasonTimeout
	case ErrCodeQuotaExceeded:
		return ReasonQuota
	case ErrCodeResponseParseFailed:
		return ReasonParseFailure
	case ErrCodeInvalidRequest:
		return ReasonInvalidBody
	default:
		return ReasonModelError
	}
}

// IsRetryable reports whether another attempt may succeed.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
