package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Messages flattens the errors for logging.
func (r *ValidationResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return out
}

// Schema is a compiled JSON Schema.
type Schema struct {
	raw      []byte
	compiled *gojsonschema.Schema
}

// Compile parses and compiles a JSON Schema document.
func Compile(schemaJSON []byte) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{raw: schemaJSON, compiled: compiled}, nil
}

// Map returns the schema document decoded into a generic map.
func (s *Schema) Map() map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(s.raw, &out)
	return out
}

// Validate checks a JSON document against the schema. A document that is
// not JSON at all is reported as a single INVALID_JSON error.
func (s *Schema) Validate(document []byte) *ValidationResult {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_JSON",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}

// Reflect derives a JSON Schema from a Go value's type. Struct fields without
// omitempty are required; unknown properties are allowed.
func Reflect(v interface{}) ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := r.Reflect(v)
	schema.Version = ""
	schema.ID = ""
	return json.Marshal(schema)
}

// ReflectAndCompile combines Reflect and Compile.
func ReflectAndCompile(v interface{}) (*Schema, error) {
	raw, err := Reflect(v)
	if err != nil {
		return nil, fmt.Errorf("reflect schema: %w", err)
	}
	return Compile(raw)
}
