package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Output format types.
const (
	FormatJSON       = "json"
	FormatStructured = "structured"
)

// Spec describes one prompt: persona, goal, context bag, ordered
// instructions, the expected output shape and an optional tone.
type Spec struct {
	Role         string       `json:"role"`
	Mission      string       `json:"mission"`
	Context      []Entry      `json:"context,omitempty"`
	Instructions []string     `json:"instructions,omitempty"`
	OutputFormat OutputFormat `json:"outputFormat"`
	Tone         *Tone        `json:"tone,omitempty"`
}

// Entry is one item of the context bag. Insertion order is kept.
type Entry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// OutputFormat carries the schema shown to the model. Schema is a literal
// JSON shape and is rendered byte for byte.
type OutputFormat struct {
	Type   string `json:"type"`
	Schema string `json:"schema"`
}

type Tone struct {
	BaseTone           string `json:"baseTone,omitempty"`
	Intensity          string `json:"intensity,omitempty"`
	RegionalAdaptation bool   `json:"regionalAdaptation,omitempty"`
}

// With appends a context entry and returns the spec for chaining.
func (s Spec) With(key string, value interface{}) Spec {
	ctx := make([]Entry, len(s.Context), len(s.Context)+1)
	copy(ctx, s.Context)
	s.Context = append(ctx, Entry{Key: key, Value: value})
	return s
}

func (s Spec) Validate() error {
	if strings.TrimSpace(s.Role) == "" {
		return fmt.Errorf("role is required")
	}
	if strings.TrimSpace(s.Mission) == "" {
		return fmt.Errorf("mission is required")
	}
	switch s.OutputFormat.Type {
	case FormatJSON, FormatStructured:
	default:
		return fmt.Errorf("output format type %q is not supported", s.OutputFormat.Type)
	}
	if strings.TrimSpace(s.OutputFormat.Schema) == "" {
		return fmt.Errorf("output schema is required")
	}
	if !json.Valid([]byte(s.OutputFormat.Schema)) {
		return fmt.Errorf("output schema is not valid JSON")
	}
	return nil
}
