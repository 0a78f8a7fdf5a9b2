// Package llm wraps the generative text backends behind a single Model
// interface. Providers return raw text; parsing happens elsewhere.
package llm

import (
	"context"
	"fmt"
	"time"

	"crm-ai-gateway/internal/common/errors"
	"crm-ai-gateway/internal/common/metrics"
)

// Model is a generative text backend.
type Model interface {
	Provider() string
	// Configured reports whether a credential is available. When false,
	// Generate must not be called.
	Configured() bool
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// Params is the per-call generation budget.
type Params struct {
	Temperature     float64 `json:"temperature" yaml:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens" yaml:"maxOutputTokens"`
}

func (p Params) Validate() error {
	if p.Temperature < 0 || p.Temperature > 1 {
		return fmt.Errorf("temperature must be within [0,1], got %v", p.Temperature)
	}
	if p.MaxOutputTokens <= 0 {
		return fmt.Errorf("maxOutputTokens must be positive, got %d", p.MaxOutputTokens)
	}
	return nil
}

// Call status labels for model_calls_total.
const (
	statusOK    = "ok"
	statusError = "error"
)

// instrumented records call counts and latency for any Model.
type instrumented struct {
	Model
}

// Instrument wraps m so every Generate call is counted and timed.
func Instrument(m Model) Model {
	if _, ok := m.(*instrumented); ok {
		return m
	}
	return &instrumented{Model: m}
}

func (i *instrumented) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	start := time.Now()
	text, err := i.Model.Generate(ctx, prompt, params)
	metrics.ModelCallDuration.WithLabelValues(i.Provider()).Observe(time.Since(start).Seconds())

	status := statusOK
	if err != nil {
		status = statusError
		if stdErr := errors.Classify(i.Provider(), err); stdErr != nil {
			status = errors.Reason(stdErr)
		}
	}
	metrics.ModelCalls.WithLabelValues(i.Provider(), status).Inc()
	return text, err
}
