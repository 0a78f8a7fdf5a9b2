package errors

import (
	"fmt"
	"net/http"
	"time"
)

type ErrorCode string

const (
	ErrCodeCredentialMissing  ErrorCode = "MODEL_CREDENTIAL_MISSING"
	ErrCodeCredentialRejected ErrorCode = "MODEL_CREDENTIAL_REJECTED"
	ErrCodeQuotaExceeded      ErrorCode = "MODEL_QUOTA_EXCEEDED"
	ErrCodeModelTimeout       ErrorCode = "MODEL_TIMEOUT"
	ErrCodeModelUnavailable   ErrorCode = "MODEL_UNAVAILABLE"
	ErrCodeModelBadResponse   ErrorCode = "MODEL_BAD_RESPONSE"
	ErrCodeModelEmptyResponse ErrorCode = "MODEL_EMPTY_RESPONSE"

	ErrCodeResponseParseFailed ErrorCode = "RESPONSE_PARSE_FAILED"

	ErrCodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrCodeSkillNotFound   ErrorCode = "SKILL_NOT_FOUND"
	ErrCodeEncodingFailed  ErrorCode = "ENCODING_FAILED"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidSkillDef ErrorCode = "INVALID_SKILL_DEFINITION"
)

// ErrorType is the caller-facing taxonomy reported as errorType.
type ErrorType string

const (
	ErrorTypeAPIKey       ErrorType = "api_key"
	ErrorTypeGeneric      ErrorType = "generic"
	ErrorTypeParseFailure ErrorType = "parse_failure"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Type maps the code onto the three-way taxonomy.
func (e *StandardError) Type() ErrorType {
	switch e.Code {
	case ErrCodeCredentialMissing, ErrCodeCredentialRejected:
		return ErrorTypeAPIKey
	case ErrCodeResponseParseFailed:
		return ErrorTypeParseFailure
	default:
		return ErrorTypeGeneric
	}
}

// HTTPStatus is the status used when an error reaches the transport.
// Parse failures never do; they degrade to the fallback with 200.
func HTTPStatus(t ErrorType) int {
	switch t {
	case ErrorTypeAPIKey:
		return http.StatusUnauthorized
	case ErrorTypeParseFailure:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

func NewCredentialMissingError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialMissing,
		Message:   "Model API key is not configured",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewCredentialRejectedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialRejected,
		Message:   "Model provider rejected the API key",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, errString(err)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewQuotaExceededError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotaExceeded,
		Message:   "Model provider quota or rate limit exceeded",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewModelTimeoutError(provider string, timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelTimeout,
		Message:   "Model call timed out",
		Details:   fmt.Sprintf("provider: %s, timeout: %s", provider, timeout),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewModelUnavailableError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelUnavailable,
		Message:   "Model provider unavailable",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewModelBadResponseError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelBadResponse,
		Message:   "Model provider returned a malformed response",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, errString(err)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewModelEmptyResponseError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelEmptyResponse,
		Message:   "Model provider returned no text",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResponseParseFailedError(skill string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseParseFailed,
		Message:   "Model output could not be parsed",
		Details:   fmt.Sprintf("skill: %s, error: %s", skill, errString(err)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidRequestError(skill string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request body is not valid JSON for this skill",
		Details:   fmt.Sprintf("skill: %s, error: %s", skill, errString(err)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSkillNotFoundError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSkillNotFound,
		Message:   "Unknown skill",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewEncodingFailedError(skill string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEncodingFailed,
		Message:   "Response could not be encoded",
		Details:   fmt.Sprintf("skill: %s, error: %s", skill, errString(err)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidSkillDefinitionError(skill, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSkillDef,
		Message:   "Skill definition is invalid",
		Details:   fmt.Sprintf("skill: %s, %s", skill, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
