package llm

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/errors"
)

const jsonGuard = "Respond with a single valid JSON object only. No text outside the JSON."

// OpenAI talks to the chat completions API or any compatible endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(cfg config.GenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (o *OpenAI) Provider() string { return config.ProviderOpenAI }

func (o *OpenAI) Configured() bool { return o.client != nil }

func (o *OpenAI) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: jsonGuard},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   params.MaxOutputTokens,
		Temperature: float32(params.Temperature),
	})
	if err != nil {
		return "", o.mapError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.NewModelEmptyResponseError(o.Provider())
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) mapError(err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return errors.FromHTTPStatus(o.Provider(), apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return errors.FromHTTPStatus(o.Provider(), reqErr.HTTPStatusCode, err)
	}
	return errors.Classify(o.Provider(), err)
}
