package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"crm-ai-gateway/internal/common/errors"
	"crm-ai-gateway/internal/common/logger"
	"crm-ai-gateway/internal/common/metrics"
	"crm-ai-gateway/internal/common/validation"
	"crm-ai-gateway/internal/gateway/parser"
	"crm-ai-gateway/internal/gateway/prompt"
)

// maxExcerpt bounds the raw model text copied into parse-failure logs.
const maxExcerpt = 300

// Outcome is the result of one skill invocation.
type Outcome[Resp any] struct {
	Envelope Envelope[Resp]
	Status   int
	// Err is set when the response must carry an error envelope.
	Err *errors.StandardError
	// Reason is the fallback reason; empty for model output.
	Reason string
	Stage  parser.Stage
	// Violations lists advisory schema mismatches of parsed model output.
	Violations []string
}

// Body returns the value to encode for the transport.
func (o Outcome[Resp]) Body() interface{} {
	if o.Err != nil {
		return ErrorEnvelope[Resp]{
			Error:     o.Err.Message,
			ErrorType: o.Err.Type(),
			Envelope:  o.Envelope,
		}
	}
	return o.Envelope
}

// compiled holds what Bind precomputes for a definition.
type compiled struct {
	fallback json.RawMessage
	schema   *validation.Schema
}

// Run executes def for req. It always produces a response-shaped value:
// model output when it parses, the fallback otherwise.
func Run[Req, Resp any](ctx context.Context, rt *Runtime, def *Definition[Req, Resp], req *Req) Outcome[Resp] {
	c := &compiled{}
	if raw, err := canonicalObject(def.Fallback); err == nil {
		c.fallback = raw
	}
	if schema, err := validation.ReflectAndCompile(new(Resp)); err == nil {
		c.schema = schema
	}
	return run(ctx, rt, def, req, c)
}

func run[Req, Resp any](ctx context.Context, rt *Runtime, def *Definition[Req, Resp], req *Req, c *compiled) Outcome[Resp] {
	start := time.Now()
	log := rt.logger(ctx).With(map[string]interface{}{
		"skill":  def.Name,
		"domain": def.Domain,
	})

	metrics.SkillsInFlight.WithLabelValues(def.Name).Inc()
	defer metrics.SkillsInFlight.WithLabelValues(def.Name).Dec()

	ctx, span := rt.Obs.StartSpan(ctx, "skill."+def.Name,
		attribute.String("skill", def.Name),
		attribute.String("domain", def.Domain),
	)
	defer span.End()

	out := generate(ctx, rt, def, req, c, log)

	outcome := metrics.OutcomeModel
	switch {
	case out.Err != nil:
		outcome = metrics.OutcomeError
	case out.Envelope.UsingFallback:
		outcome = metrics.OutcomeFallback
	}
	if out.Reason != "" {
		metrics.SkillFallbacks.WithLabelValues(def.Name, out.Reason).Inc()
	}
	elapsed := time.Since(start)
	metrics.SkillRequests.WithLabelValues(def.Name, outcome).Inc()
	metrics.SkillDuration.WithLabelValues(def.Name, outcome).Observe(elapsed.Seconds())
	rt.Obs.RecordSkill(ctx, def.Name, outcome, elapsed)
	span.SetAttributes(attribute.String("outcome", outcome), attribute.String("reason", out.Reason))

	log.Info("skill completed", map[string]interface{}{
		"outcome":    outcome,
		"reason":     out.Reason,
		"stage":      string(out.Stage),
		"status":     out.Status,
		"durationMs": elapsed.Milliseconds(),
	})
	return out
}

func generate[Req, Resp any](ctx context.Context, rt *Runtime, def *Definition[Req, Resp], req *Req, c *compiled, log logger.Logger) Outcome[Resp] {
	text := prompt.Render(def.Prompt(req))

	if rt.Model == nil || !rt.Model.Configured() {
		log.Debug("model not configured, serving fallback", nil)
		return fallbackOutcome(def, c, errors.ReasonNotConfigured)
	}

	timeout := rt.timeout(def.Timeout)
	raw, err := callModel(ctx, rt, def, text, timeout)
	if err != nil {
		stdErr := errors.Classify(rt.Model.Provider(), err)
		reason := errors.Reason(stdErr)
		log.Warn("model call failed, serving fallback", map[string]interface{}{
			"provider":  rt.Model.Provider(),
			"errorCode": string(stdErr.Code),
			"reason":    reason,
			"error":     err.Error(),
		})
		out := fallbackOutcome(def, c, reason)
		if stdErr.Type() == errors.ErrorTypeAPIKey {
			out.Err = stdErr
			out.Status = errors.HTTPStatus(errors.ErrorTypeAPIKey)
		}
		return out
	}

	value, res := parser.Parse(raw, *new(Resp))
	if res.UsedFallback() {
		metrics.SkillParseFailures.WithLabelValues(def.Name).Inc()
		log.Warn("model output could not be parsed, serving fallback", map[string]interface{}{
			"error":      res.Err.Error(),
			"rawExcerpt": excerpt(raw),
			"rawLength":  len(raw),
		})
		return fallbackOutcome(def, c, errors.ReasonParseFailure)
	}
	if res.Stage == parser.StageEmbedded {
		metrics.SkillParseRecoveries.WithLabelValues(def.Name).Inc()
	}
	if res.Mismatch != nil {
		log.Debug("model output has mistyped fields, keeping the rest", map[string]interface{}{
			"mismatch": res.Mismatch.Error(),
		})
	}

	out := Outcome[Resp]{
		Envelope: Envelope[Resp]{Payload: value},
		Status:   http.StatusOK,
		Stage:    res.Stage,
	}
	if c.schema != nil {
		if result := c.schema.Validate([]byte(res.JSON)); !result.Valid {
			out.Violations = result.Messages()
			metrics.SkillSchemaViolations.WithLabelValues(def.Name).Inc()
			log.Warn("model output does not match response schema", map[string]interface{}{
				"violations": out.Violations,
			})
		}
	}
	return out
}

type callResult struct {
	text string
	err  error
}

// callModel races the model against the skill's timeout. The result channel
// is buffered so a late reply never blocks the abandoned goroutine.
func callModel[Req, Resp any](ctx context.Context, rt *Runtime, def *Definition[Req, Resp], text string, timeout time.Duration) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan callResult, 1)
	go func() {
		t, err := rt.Model.Generate(callCtx, text, def.Params)
		done <- callResult{text: t, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-callCtx.Done():
		if parentErr := ctx.Err(); parentErr != nil && parentErr != context.DeadlineExceeded {
			return "", errors.NewModelUnavailableError(rt.Model.Provider(), parentErr)
		}
		return "", errors.NewModelTimeoutError(rt.Model.Provider(), timeout)
	}
}

func fallbackOutcome[Req, Resp any](def *Definition[Req, Resp], c *compiled, reason string) Outcome[Resp] {
	return Outcome[Resp]{
		Envelope: Envelope[Resp]{Payload: fallbackValue(def, c), UsingFallback: true},
		Status:   http.StatusOK,
		Reason:   reason,
		Stage:    parser.StageFallback,
	}
}

// fallbackValue decodes a fresh copy so callers can never alter the table.
func fallbackValue[Req, Resp any](def *Definition[Req, Resp], c *compiled) Resp {
	var v Resp
	if c != nil && len(c.fallback) > 0 {
		if err := json.Unmarshal(c.fallback, &v); err == nil {
			return v
		}
	}
	return def.Fallback
}

func excerpt(raw string) string {
	if len(raw) <= maxExcerpt {
		return raw
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return raw[:cut] + "..."
}
