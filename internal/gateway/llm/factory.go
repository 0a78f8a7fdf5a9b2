package llm

import (
	"context"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/logger"
)

// New builds the Model for cfg. Without a credential the result is
// Unconfigured; a client that cannot be constructed is treated the same way.
func New(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) Model {
	if !cfg.IsConfigured() {
		log.Warn("model credential not configured, skills will serve fallbacks", map[string]interface{}{
			"provider": cfg.Provider,
		})
		return Unconfigured{Name: cfg.Provider}
	}

	var base Model
	switch cfg.Provider {
	case config.ProviderOpenAI:
		base = NewOpenAI(cfg)
	case config.ProviderAnthropic:
		base = NewAnthropic(cfg)
	case config.ProviderHTTP:
		base = NewHTTPModel(cfg, 0)
	default:
		g, err := NewGemini(ctx, cfg)
		if err != nil {
			log.Error("failed to create model client", map[string]interface{}{
				"provider": cfg.Provider,
				"error":    err.Error(),
			})
			return Unconfigured{Name: cfg.Provider}
		}
		base = g
	}

	log.Info("model backend ready", map[string]interface{}{
		"provider":   base.Provider(),
		"model":      cfg.Model,
		"maxRetries": cfg.MaxRetries,
	})
	return WithRetry(Instrument(base), cfg.MaxRetries)
}
