package gateway

import (
	"encoding/json"
	"fmt"

	"crm-ai-gateway/internal/common/errors"
)

// Envelope is the uniform response shape: the payload's own fields plus
// usingFallback and, when the request carried one, dataHash. The shape is
// the same for model output and fallback.
type Envelope[T any] struct {
	Payload       T
	UsingFallback bool
	DataHash      *string
}

func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	extra := map[string]interface{}{"usingFallback": e.UsingFallback}
	if e.DataHash != nil {
		extra["dataHash"] = *e.DataHash
	}
	return flatten(e.Payload, extra)
}

// ErrorEnvelope is returned with a non-200 status. It still carries the full
// fallback envelope so callers can render it.
type ErrorEnvelope[T any] struct {
	Error     string
	ErrorType errors.ErrorType
	Envelope  Envelope[T]
}

func (e ErrorEnvelope[T]) MarshalJSON() ([]byte, error) {
	extra := map[string]interface{}{
		"error":         e.Error,
		"errorType":     e.ErrorType,
		"usingFallback": e.Envelope.UsingFallback,
	}
	if e.Envelope.DataHash != nil {
		extra["dataHash"] = *e.Envelope.DataHash
	}
	return flatten(e.Envelope.Payload, extra)
}

// flatten merges extra into the top level of payload's JSON object.
// Envelope keys win over payload fields of the same name.
func flatten(payload interface{}, extra map[string]interface{}) ([]byte, error) {
	var fields map[string]json.RawMessage
	switch p := payload.(type) {
	case json.RawMessage:
		if err := json.Unmarshal(p, &fields); err != nil {
			return nil, fmt.Errorf("payload is not a JSON object: %w", err)
		}
	default:
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("payload is not a JSON object: %w", err)
		}
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, len(extra))
	}

	for k, v := range extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// requestDataHash reports the dataHash supplied in a request body. Presence
// is what counts: an empty string is echoed, a missing key or null is not.
// Non-string values are echoed as their JSON text.
func requestDataHash(body []byte) *string {
	var doc struct {
		DataHash json.RawMessage `json:"dataHash"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	if len(doc.DataHash) == 0 || string(doc.DataHash) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(doc.DataHash, &s); err == nil {
		return &s
	}
	s = string(doc.DataHash)
	return &s
}
