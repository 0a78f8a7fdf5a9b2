package llm

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/errors"
)

// Anthropic uses the messages API.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

func NewAnthropic(cfg config.GenAIConfig) *Anthropic {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	return &Anthropic{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		model:  cfg.Model,
	}
}

func (a *Anthropic) Provider() string { return config.ProviderAnthropic }

func (a *Anthropic) Configured() bool { return a.client != nil }

func (a *Anthropic) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	temperature := float32(params.Temperature)
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(a.model),
		System:      jsonGuard,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens:   params.MaxOutputTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", a.mapError(err)
	}

	text := resp.GetFirstContentText()
	if strings.TrimSpace(text) == "" {
		return "", errors.NewModelEmptyResponseError(a.Provider())
	}
	return text, nil
}

func (a *Anthropic) mapError(err error) error {
	var reqErr *anthropic.RequestError
	if stderrors.As(err, &reqErr) && reqErr.StatusCode != 0 {
		return errors.FromHTTPStatus(a.Provider(), reqErr.StatusCode, err)
	}
	return errors.Classify(a.Provider(), err)
}
