package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_Type(t *testing.T) {
	tests := []struct {
		err      *StandardError
		expected ErrorType
		status   int
	}{
		{NewCredentialMissingError("gemini"), ErrorTypeAPIKey, http.StatusUnauthorized},
		{NewCredentialRejectedError("openai", stderrors.New("401")), ErrorTypeAPIKey, http.StatusUnauthorized},
		{NewQuotaExceededError("gemini", stderrors.New("429")), ErrorTypeGeneric, http.StatusInternalServerError},
		{NewModelTimeoutError("gemini", 0), ErrorTypeGeneric, http.StatusInternalServerError},
		{NewInvalidRequestError("proposal", stderrors.New("bad json")), ErrorTypeGeneric, http.StatusInternalServerError},
		{NewResponseParseFailedError("proposal", stderrors.New("no json")), ErrorTypeParseFailure, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type())
			assert.Equal(t, tt.status, HTTPStatus(tt.err.Type()))
			assert.Contains(t, tt.err.Error(), string(tt.err.Code))
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"typed passthrough", fmt.Errorf("wrapped: %w", NewQuotaExceededError("x", nil)), ErrCodeQuotaExceeded},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), ErrCodeModelTimeout},
		{"api key message", stderrors.New("API key not valid. Please pass a valid API key."), ErrCodeCredentialRejected},
		{"unauthorized", stderrors.New("error, status code: 401, message: Unauthorized"), ErrCodeCredentialRejected},
		{"rate limit", stderrors.New("Rate limit reached for requests"), ErrCodeQuotaExceeded},
		{"resource exhausted", stderrors.New("Error 429, Status: RESOURCE_EXHAUSTED"), ErrCodeQuotaExceeded},
		{"connection refused", stderrors.New("dial tcp 127.0.0.1:1: connect: connection refused"), ErrCodeModelUnavailable},
		{"unknown", stderrors.New("something odd"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("gemini", tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Code)
		})
	}

	assert.Nil(t, Classify("gemini", nil))
}

func TestFromHTTPStatus(t *testing.T) {
	cause := stderrors.New("provider said no")
	assert.Equal(t, ErrCodeCredentialRejected, FromHTTPStatus("http", 401, cause).Code)
	assert.Equal(t, ErrCodeCredentialRejected, FromHTTPStatus("http", 403, cause).Code)
	assert.Equal(t, ErrCodeQuotaExceeded, FromHTTPStatus("http", 429, cause).Code)
	assert.Equal(t, ErrCodeModelUnavailable, FromHTTPStatus("http", 503, cause).Code)
	assert.Equal(t, ErrCodeModelBadResponse, FromHTTPStatus("http", 400, cause).Code)
}

func TestReasonAndRetryable(t *testing.T) {
	assert.Equal(t, ReasonNotConfigured, Reason(NewCredentialMissingError("x")))
	assert.Equal(t, ReasonAPIKey, Reason(NewCredentialRejectedError("x", nil)))
	assert.Equal(t, ReasonTimeout, Reason(NewModelTimeoutError("x", 0)))
	assert.Equal(t, ReasonQuota, Reason(NewQuotaExceededError("x", nil)))
	assert.Equal(t, ReasonModelError, Reason(NewModelBadResponseError("x", nil)))
	assert.Equal(t, ReasonModelError, Reason(nil))

	assert.True(t, IsRetryable(NewModelUnavailableError("x", nil)))
	assert.True(t, IsRetryable(NewQuotaExceededError("x", nil)))
	assert.False(t, IsRetryable(NewCredentialRejectedError("x", nil)))
	assert.False(t, IsRetryable(stderrors.New("plain")))
}
