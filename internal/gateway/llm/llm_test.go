package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/errors"
	"crm-ai-gateway/internal/common/logger"
)

var testParams = Params{Temperature: 0.4, MaxOutputTokens: 1024}

// ==========================
// Mock model
// ==========================

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Provider() string { return "mock" }

func (m *mockModel) Configured() bool { return true }

func (m *mockModel) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	args := m.Called(ctx, prompt, params)
	return args.String(0), args.Error(1)
}

func classifyType(t *testing.T, err error) errors.ErrorType {
	t.Helper()
	stdErr := errors.Classify("test", err)
	require.NotNil(t, stdErr)
	return stdErr.Type()
}

// ==========================
// Params
// ==========================

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		ok     bool
	}{
		{"valid", Params{Temperature: 0.7, MaxOutputTokens: 2048}, true},
		{"zero temperature", Params{Temperature: 0, MaxOutputTokens: 1}, true},
		{"temperature above one", Params{Temperature: 1.1, MaxOutputTokens: 1024}, false},
		{"negative temperature", Params{Temperature: -0.1, MaxOutputTokens: 1024}, false},
		{"zero tokens", Params{Temperature: 0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ok {
				assert.NoError(t, tt.params.Validate())
			} else {
				assert.Error(t, tt.params.Validate())
			}
		})
	}
}

// ==========================
// Unconfigured and factory
// ==========================

func TestUnconfigured(t *testing.T) {
	u := Unconfigured{Name: config.ProviderGemini}
	assert.False(t, u.Configured())
	assert.Equal(t, config.ProviderGemini, u.Provider())

	_, err := u.Generate(context.Background(), "p", testParams)
	assert.Equal(t, errors.ErrorTypeAPIKey, classifyType(t, err))
	assert.Equal(t, "none", Unconfigured{}.Provider())
}

func TestNew_SelectsProvider(t *testing.T) {
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	m := New(ctx, config.GenAIConfig{Provider: config.ProviderOpenAI}, log)
	assert.False(t, m.Configured(), "no key means no live model")

	tests := []struct {
		cfg      config.GenAIConfig
		provider string
	}{
		{config.GenAIConfig{Provider: config.ProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"}, config.ProviderOpenAI},
		{config.GenAIConfig{Provider: config.ProviderAnthropic, APIKey: "k", Model: "claude-3-haiku-20240307"}, config.ProviderAnthropic},
		{config.GenAIConfig{Provider: config.ProviderHTTP, APIKey: "k", BaseURL: "http://genai.local"}, config.ProviderHTTP},
		{config.GenAIConfig{Provider: config.ProviderOpenAI, APIKey: "k", MaxRetries: 2}, config.ProviderOpenAI},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			m := New(ctx, tt.cfg, log)
			assert.True(t, m.Configured())
			assert.Equal(t, tt.provider, m.Provider())
		})
	}
}

// ==========================
// Retry
// ==========================

func TestRetrying_RetriesRetryableErrors(t *testing.T) {
	inner := &mockModel{}
	inner.On("Generate", mock.Anything, "p", testParams).
		Return("", errors.NewModelUnavailableError("mock", io.EOF)).Twice()
	inner.On("Generate", mock.Anything, "p", testParams).Return(`{"ok":true}`, nil).Once()

	r := &Retrying{Model: inner, MaxRetries: 3, BaseDelay: time.Millisecond}
	text, err := r.Generate(context.Background(), "p", testParams)

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	inner.AssertNumberOfCalls(t, "Generate", 3)
}

func TestRetrying_StopsOnNonRetryable(t *testing.T) {
	inner := &mockModel{}
	inner.On("Generate", mock.Anything, "p", testParams).
		Return("", errors.NewCredentialRejectedError("mock", nil))

	r := &Retrying{Model: inner, MaxRetries: 3, BaseDelay: time.Millisecond}
	_, err := r.Generate(context.Background(), "p", testParams)

	assert.Equal(t, errors.ErrorTypeAPIKey, classifyType(t, err))
	inner.AssertNumberOfCalls(t, "Generate", 1)
}

func TestRetrying_BoundedAttempts(t *testing.T) {
	inner := &mockModel{}
	inner.On("Generate", mock.Anything, "p", testParams).
		Return("", errors.NewQuotaExceededError("mock", nil))

	r := &Retrying{Model: inner, MaxRetries: 2, BaseDelay: time.Millisecond}
	_, err := r.Generate(context.Background(), "p", testParams)

	require.Error(t, err)
	inner.AssertNumberOfCalls(t, "Generate", 3)
}

func TestRetrying_AbortsOnContextCancel(t *testing.T) {
	inner := &mockModel{}
	inner.On("Generate", mock.Anything, "p", testParams).
		Return("", errors.NewModelUnavailableError("mock", io.EOF))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := &Retrying{Model: inner, MaxRetries: 5, BaseDelay: time.Second}
	_, err := r.Generate(ctx, "p", testParams)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeModelTimeout, errors.Classify("mock", err).Code)
	inner.AssertNumberOfCalls(t, "Generate", 1)
}

func TestWithRetry_ZeroIsPassThrough(t *testing.T) {
	inner := &mockModel{}
	assert.Same(t, inner, WithRetry(inner, 0))
}

// ==========================
// HTTP provider
// ==========================

func TestHTTPModel_Generate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"{\"a\":1}"}`))
	}))
	defer srv.Close()

	m := NewHTTPModel(config.GenAIConfig{APIKey: "secret", BaseURL: srv.URL + "/"}, 0)
	require.True(t, m.Configured())

	text, err := m.Generate(context.Background(), "hello", testParams)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
	assert.Equal(t, "hello", got.Prompt)
	assert.Equal(t, 1024, got.MaxTokens)
	assert.InDelta(t, 0.4, got.Temperature, 1e-9)
}

func TestHTTPModel_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected errors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`, errors.ErrCodeCredentialRejected},
		{"rate limited", http.StatusTooManyRequests, `{}`, errors.ErrCodeQuotaExceeded},
		{"server error", http.StatusBadGateway, `oops`, errors.ErrCodeModelUnavailable},
		{"malformed body", http.StatusOK, `not json`, errors.ErrCodeModelBadResponse},
		{"empty text", http.StatusOK, `{"text":"  "}`, errors.ErrCodeModelEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			m := NewHTTPModel(config.GenAIConfig{APIKey: "k", BaseURL: srv.URL}, 0)
			_, err := m.Generate(context.Background(), "p", testParams)
			require.Error(t, err)
			assert.Equal(t, tt.expected, errors.Classify("http", err).Code)
		})
	}
}

func TestHTTPModel_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	m := NewHTTPModel(config.GenAIConfig{APIKey: "k", BaseURL: srv.URL}, 0)
	_, err := m.Generate(ctx, "p", testParams)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeModelTimeout, errors.Classify("http", err).Code)
}

// ==========================
// OpenAI provider
// ==========================

func TestOpenAI_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.EqualValues(t, 1024, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"a\":1}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	m := NewOpenAI(config.GenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"})
	text, err := m.Generate(context.Background(), "hello", testParams)

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestOpenAI_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected errors.ErrorType
		code     errors.ErrorCode
	}{
		{"rejected key", http.StatusUnauthorized, errors.ErrorTypeAPIKey, errors.ErrCodeCredentialRejected},
		{"quota", http.StatusTooManyRequests, errors.ErrorTypeGeneric, errors.ErrCodeQuotaExceeded},
		{"unavailable", http.StatusServiceUnavailable, errors.ErrorTypeGeneric, errors.ErrCodeModelUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"request failed","type":"invalid_request_error"}}`))
			}))
			defer srv.Close()

			m := NewOpenAI(config.GenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"})
			_, err := m.Generate(context.Background(), "hello", testParams)

			require.Error(t, err)
			stdErr := errors.Classify("openai", err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.expected, stdErr.Type())
		})
	}
}

// ==========================
// Anthropic provider
// ==========================

func TestAnthropic_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/messages"))
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-haiku-20240307",
			"content":[{"type":"text","text":"{\"a\":1}"}],"stop_reason":"end_turn",
			"usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer srv.Close()

	m := NewAnthropic(config.GenAIConfig{APIKey: "ak-test", BaseURL: srv.URL + "/v1", Model: "claude-3-haiku-20240307"})
	text, err := m.Generate(context.Background(), "hello", testParams)

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestAnthropic_RejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	m := NewAnthropic(config.GenAIConfig{APIKey: "bad", BaseURL: srv.URL + "/v1", Model: "claude-3-haiku-20240307"})
	_, err := m.Generate(context.Background(), "hello", testParams)

	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeAPIKey, classifyType(t, err))
}

// ==========================
// Gemini provider
// ==========================

func newTestGemini(t *testing.T, url string) *Gemini {
	t.Helper()
	m, err := NewGemini(context.Background(), config.GenAIConfig{
		Provider: config.ProviderGemini,
		APIKey:   "gk-test",
		BaseURL:  url,
		Model:    "gemini-2.0-flash",
	})
	require.NoError(t, err)
	return m
}

func TestGemini_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		assert.Equal(t, "gk-test", r.Header.Get("X-Goog-Api-Key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		cfg, _ := body["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", cfg["responseMimeType"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"a\":1}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	m := newTestGemini(t, srv.URL)
	assert.True(t, m.Configured())
	assert.Equal(t, config.ProviderGemini, m.Provider())

	text, err := m.Generate(context.Background(), "hello", testParams)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestGemini_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  "}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(t, srv.URL).Generate(context.Background(), "hello", testParams)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeModelEmptyResponse, errors.Classify("gemini", err).Code)
}

func TestGemini_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		grpc     string
		expected errors.ErrorType
		code     errors.ErrorCode
	}{
		{"rejected key", http.StatusUnauthorized, "UNAUTHENTICATED", errors.ErrorTypeAPIKey, errors.ErrCodeCredentialRejected},
		{"quota", http.StatusTooManyRequests, "RESOURCE_EXHAUSTED", errors.ErrorTypeGeneric, errors.ErrCodeQuotaExceeded},
		{"unavailable", http.StatusServiceUnavailable, "UNAVAILABLE", errors.ErrorTypeGeneric, errors.ErrCodeModelUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"code":` + strconv.Itoa(tt.status) + `,"message":"request failed","status":"` + tt.grpc + `"}}`))
			}))
			defer srv.Close()

			_, err := newTestGemini(t, srv.URL).Generate(context.Background(), "hello", testParams)

			require.Error(t, err)
			stdErr := errors.Classify("gemini", err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.expected, stdErr.Type())
		})
	}
}

// ==========================
// Instrumentation
// ==========================

func TestInstrument_PassesThrough(t *testing.T) {
	inner := &mockModel{}
	inner.On("Generate", mock.Anything, "p", testParams).Return("text", nil).Once()

	m := Instrument(inner)
	assert.Same(t, m, Instrument(m), "instrumenting twice is a no-op")

	text, err := m.Generate(context.Background(), "p", testParams)
	require.NoError(t, err)
	assert.Equal(t, "text", text)
	assert.Equal(t, "mock", m.Provider())
	inner.AssertExpectations(t)
}
