package llm

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/errors"
	commonhttp "crm-ai-gateway/internal/common/http"
)

const generatePath = "/api/ai/generate"

// HTTPModel posts prompts to a JSON text-generation service.
type HTTPModel struct {
	client  *commonhttp.Client
	baseURL string
	apiKey  string
	model   string
}

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// NewHTTPModel leaves timeouts to the caller's context; timeout only caps
// the transport as a backstop.
func NewHTTPModel(cfg config.GenAIConfig, timeout time.Duration) *HTTPModel {
	return &HTTPModel{
		client:  commonhttp.NewClient(timeout),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

func (h *HTTPModel) Provider() string { return config.ProviderHTTP }

func (h *HTTPModel) Configured() bool { return h.baseURL != "" && h.apiKey != "" }

func (h *HTTPModel) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + h.apiKey}
	body := generateRequest{
		Prompt:      prompt,
		Model:       h.model,
		MaxTokens:   params.MaxOutputTokens,
		Temperature: params.Temperature,
	}

	var out generateResponse
	if err := h.client.PostJSON(ctx, h.baseURL+generatePath, headers, body, &out); err != nil {
		var statusErr *commonhttp.StatusError
		if stderrors.As(err, &statusErr) {
			return "", errors.FromHTTPStatus(h.Provider(), statusErr.StatusCode, err)
		}
		if stderrors.Is(err, commonhttp.ErrDecode) {
			return "", errors.NewModelBadResponseError(h.Provider(), err)
		}
		if ctx.Err() != nil {
			return "", errors.Classify(h.Provider(), ctx.Err())
		}
		return "", errors.Classify(h.Provider(), err)
	}

	if strings.TrimSpace(out.Text) == "" {
		return "", errors.NewModelEmptyResponseError(h.Provider())
	}
	return out.Text, nil
}
