package gateway

import (
	"context"
	"encoding/json"
	"time"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/logger"
	"crm-ai-gateway/internal/common/observability"
	"crm-ai-gateway/internal/gateway/llm"
)

const defaultTimeout = 30 * time.Second

// Runtime is the read-only state shared by every skill invocation. It is
// assembled at startup and never mutated afterwards.
type Runtime struct {
	Model          llm.Model
	Logger         logger.Logger
	Obs            *observability.Observability
	DefaultTimeout time.Duration
	// Skills holds per-skill overrides keyed by skill name.
	Skills map[string]config.SkillConfig
	// FallbackOverrides replaces a skill's built-in fallback when the
	// document decodes into the skill's response type.
	FallbackOverrides map[string]json.RawMessage
}

func (rt *Runtime) logger(ctx context.Context) logger.Logger {
	def := rt.Logger
	if def == nil {
		def = logger.NewNoOpLogger()
	}
	return logger.FromContext(ctx, def)
}

func (rt *Runtime) timeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	if rt.DefaultTimeout > 0 {
		return rt.DefaultTimeout
	}
	return defaultTimeout
}

// FallbackStore is the source of operator-published fallbacks.
type FallbackStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// LoadFallbackOverrides reads the hash at key once. Entries that are not
// JSON objects are skipped with a warning; type checks happen in Bind.
func LoadFallbackOverrides(ctx context.Context, store FallbackStore, key string, log logger.Logger) (map[string]json.RawMessage, error) {
	values, err := store.HGetAll(ctx, key)
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(values))
	for name, doc := range values {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(doc), &fields); err != nil || fields == nil {
			log.Warn("ignoring fallback override that is not a JSON object", map[string]interface{}{
				"skill": name,
				"key":   key,
			})
			continue
		}
		out[name] = json.RawMessage(doc)
	}

	log.Info("fallback overrides loaded", map[string]interface{}{
		"key":   key,
		"count": len(out),
	})
	return out, nil
}
