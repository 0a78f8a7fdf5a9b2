// Package gateway runs content-generation skills. A skill is a Definition
// record; Run is the single control flow shared by all of them.
package gateway

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"crm-ai-gateway/internal/common/errors"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/prompt"
)

const routePrefix = "/api/ai"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Definition describes one skill: where it is routed, how its prompt is
// built from a request, the generation budget and the static fallback.
type Definition[Req, Resp any] struct {
	Name        string
	Domain      string
	Description string
	Params      llm.Params
	// Timeout bounds the model call. Zero uses the runtime default.
	Timeout  time.Duration
	Prompt   func(req *Req) prompt.Spec
	Fallback Resp
	Tags     []string
}

func (d *Definition[Req, Resp]) Path() string {
	return fmt.Sprintf("%s/%s/%s", routePrefix, d.Domain, d.Name)
}

// Validate checks the record once at startup. The prompt builder is run
// against an empty request so every skill renders with partial input.
func (d *Definition[Req, Resp]) Validate() error {
	if !slugPattern.MatchString(d.Name) {
		return errors.NewInvalidSkillDefinitionError(d.Name, "name must be a lowercase slug")
	}
	if !slugPattern.MatchString(d.Domain) {
		return errors.NewInvalidSkillDefinitionError(d.Name, "domain must be a lowercase slug")
	}
	if err := d.Params.Validate(); err != nil {
		return errors.NewInvalidSkillDefinitionError(d.Name, err.Error())
	}
	if d.Timeout < 0 {
		return errors.NewInvalidSkillDefinitionError(d.Name, "timeout must not be negative")
	}
	if d.Prompt == nil {
		return errors.NewInvalidSkillDefinitionError(d.Name, "prompt builder is required")
	}
	if err := d.Prompt(new(Req)).Validate(); err != nil {
		return errors.NewInvalidSkillDefinitionError(d.Name, "prompt: "+err.Error())
	}
	if _, err := canonicalObject(d.Fallback); err != nil {
		return errors.NewInvalidSkillDefinitionError(d.Name, "fallback: "+err.Error())
	}
	return nil
}

// canonicalObject encodes v and requires the result to be a JSON object.
func canonicalObject(v interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("must encode as a JSON object")
	}
	return raw, nil
}
