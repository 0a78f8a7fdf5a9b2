package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/errors"
)

// Gemini calls the Google Gen AI API and asks for a JSON MIME response.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, cfg config.GenAIConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

func (g *Gemini) Provider() string { return config.ProviderGemini }

func (g *Gemini) Configured() bool { return g.client != nil }

func (g *Gemini) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	temperature := float32(params.Temperature)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  int32(params.MaxOutputTokens),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", g.mapError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.NewModelEmptyResponseError(g.Provider())
	}
	return text, nil
}

func (g *Gemini) mapError(err error) error {
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return errors.FromHTTPStatus(g.Provider(), apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if stderrors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return errors.FromHTTPStatus(g.Provider(), apiErrPtr.Code, err)
	}
	return errors.Classify(g.Provider(), err)
}
