package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/errors"
	"crm-ai-gateway/internal/common/metrics"
	"crm-ai-gateway/internal/common/validation"
	"crm-ai-gateway/internal/gateway/parser"
	"crm-ai-gateway/internal/gateway/prompt"
	"crm-ai-gateway/pkg/registry"
)

// Response is an encoded reply ready for the transport.
type Response struct {
	Status int
	Body   json.RawMessage
}

// Endpoint is a bound skill with its request and response types erased.
type Endpoint interface {
	Name() string
	Domain() string
	Path() string
	Enabled() bool
	Describe() registry.Skill
	// Fallback returns the canonical fallback payload.
	Fallback() json.RawMessage
	// RenderPrompt decodes body and returns the prompt that would be sent.
	RenderPrompt(body []byte) (string, error)
	Handle(ctx context.Context, body []byte) Response
}

type endpoint[Req, Resp any] struct {
	def      Definition[Req, Resp]
	rt       *Runtime
	enabled  bool
	compiled *compiled
	reqDoc   map[string]interface{}
}

// Bind validates def, applies per-skill configuration and any fallback
// override, and returns the transport-facing endpoint.
func Bind[Req, Resp any](def *Definition[Req, Resp], rt *Runtime) (Endpoint, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	ep := &endpoint[Req, Resp]{def: *def, rt: rt, enabled: config.IsSkillEnabled(rt.Skills, def.Name)}
	if err := ep.applyConfig(config.GetSkillConfig(rt.Skills, def.Name)); err != nil {
		return nil, err
	}

	fallback, err := canonicalObject(def.Fallback)
	if err != nil {
		return nil, errors.NewInvalidSkillDefinitionError(def.Name, "fallback: "+err.Error())
	}
	if override, ok := rt.FallbackOverrides[def.Name]; ok {
		if canonical, err := decodeOverride[Resp](override); err != nil {
			rt.logger(context.Background()).Warn("ignoring fallback override", map[string]interface{}{
				"skill": def.Name,
				"error": err.Error(),
			})
		} else {
			fallback = canonical
		}
	}

	schema, err := validation.ReflectAndCompile(new(Resp))
	if err != nil {
		return nil, errors.NewInvalidSkillDefinitionError(def.Name, "response schema: "+err.Error())
	}
	if raw, err := validation.Reflect(new(Req)); err == nil {
		_ = json.Unmarshal(raw, &ep.reqDoc)
	}

	ep.compiled = &compiled{fallback: fallback, schema: schema}
	return ep, nil
}

func (e *endpoint[Req, Resp]) applyConfig(sc config.SkillConfig) error {
	if sc.Temperature != nil {
		e.def.Params.Temperature = *sc.Temperature
	}
	if sc.MaxOutputTokens > 0 {
		e.def.Params.MaxOutputTokens = sc.MaxOutputTokens
	}
	if sc.Timeout > 0 {
		e.def.Timeout = config.GetDuration(sc.Timeout)
	}
	if err := e.def.Params.Validate(); err != nil {
		return errors.NewInvalidSkillDefinitionError(e.def.Name, "config override: "+err.Error())
	}
	return nil
}

// decodeOverride requires the document to decode into Resp without unknown
// fields and returns its canonical encoding.
func decodeOverride[Resp any](doc json.RawMessage) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	var v Resp
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode override: %w", err)
	}
	return canonicalObject(v)
}

func (e *endpoint[Req, Resp]) Name() string   { return e.def.Name }
func (e *endpoint[Req, Resp]) Domain() string { return e.def.Domain }
func (e *endpoint[Req, Resp]) Path() string   { return e.def.Path() }
func (e *endpoint[Req, Resp]) Enabled() bool  { return e.enabled }

func (e *endpoint[Req, Resp]) Fallback() json.RawMessage {
	out := make(json.RawMessage, len(e.compiled.fallback))
	copy(out, e.compiled.fallback)
	return out
}

func (e *endpoint[Req, Resp]) Describe() registry.Skill {
	return registry.Skill{
		Name:            e.def.Name,
		Domain:          e.def.Domain,
		Description:     e.def.Description,
		Route:           e.def.Path(),
		Method:          http.MethodPost,
		Enabled:         e.enabled,
		Temperature:     e.def.Params.Temperature,
		MaxOutputTokens: e.def.Params.MaxOutputTokens,
		Timeout:         e.rt.timeout(e.def.Timeout).String(),
		RequestSchema:   e.reqDoc,
		ResponseSchema:  e.compiled.schema.Map(),
		ErrorTypes: []string{
			string(errors.ErrorTypeAPIKey),
			string(errors.ErrorTypeGeneric),
			string(errors.ErrorTypeParseFailure),
		},
		Tags: append([]string(nil), e.def.Tags...),
	}
}

func (e *endpoint[Req, Resp]) RenderPrompt(body []byte) (string, error) {
	var req Req
	if _, err := parser.DecodeObject(body, &req); err != nil {
		return "", errors.NewInvalidRequestError(e.def.Name, err)
	}
	return prompt.Render(e.def.Prompt(&req)), nil
}

// Handle decodes the body, runs the skill and encodes the envelope. Only a
// body that is not a JSON object is rejected; mistyped fields are dropped.
func (e *endpoint[Req, Resp]) Handle(ctx context.Context, body []byte) Response {
	var req Req
	mismatch, err := parser.DecodeObject(body, &req)
	if err != nil {
		stdErr := errors.NewInvalidRequestError(e.def.Name, err)
		e.rt.logger(ctx).Warn("invalid request body", map[string]interface{}{
			"skill": e.def.Name,
			"error": err.Error(),
		})
		metrics.SkillRequests.WithLabelValues(e.def.Name, metrics.OutcomeError).Inc()
		metrics.SkillFallbacks.WithLabelValues(e.def.Name, errors.ReasonInvalidBody).Inc()
		out := fallbackOutcome(&e.def, e.compiled, errors.ReasonInvalidBody)
		out.Err = stdErr
		out.Status = errors.HTTPStatus(stdErr.Type())
		return e.encode(out.Status, out.Body())
	}
	if mismatch != nil {
		e.rt.logger(ctx).Warn("ignoring mistyped request fields", map[string]interface{}{
			"skill": e.def.Name,
			"error": mismatch.Error(),
		})
	}

	out := run(ctx, e.rt, &e.def, &req, e.compiled)
	out.Envelope.DataHash = requestDataHash(body)
	return e.encode(out.Status, out.Body())
}

// encode serializes v. If that fails the canonical fallback is sent with a
// generic error, which cannot fail to encode.
func (e *endpoint[Req, Resp]) encode(status int, v interface{}) Response {
	data, err := json.Marshal(v)
	if err == nil {
		return Response{Status: status, Body: data}
	}

	stdErr := errors.NewEncodingFailedError(e.def.Name, err)
	e.rt.logger(context.Background()).Error("response encoding failed", map[string]interface{}{
		"skill": e.def.Name,
		"error": err.Error(),
	})
	data, _ = flatten(e.compiled.fallback, map[string]interface{}{
		"error":         stdErr.Message,
		"errorType":     errors.ErrorTypeGeneric,
		"usingFallback": true,
	})
	return Response{Status: http.StatusInternalServerError, Body: data}
}
