// Package parser turns raw model text into a typed value. Parsing is total:
// when nothing usable is found the caller's fallback is returned unmodified.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Stage string

const (
	StageStrict   Stage = "strict"
	StageEmbedded Stage = "embedded"
	StageFallback Stage = "fallback"
)

var (
	ErrEmpty      = errors.New("empty input")
	ErrNotObject  = errors.New("input is not a JSON object")
	ErrNoEmbedded = errors.New("no decodable JSON object found in model output")
)

// Result reports which stage produced the value. JSON is the text that was
// decoded; Err is set only when the fallback was used. Mismatch describes the
// first field whose value did not fit its Go type and was left zero.
type Result struct {
	Stage    Stage
	JSON     string
	Err      error
	Mismatch error
}

func (r Result) UsedFallback() bool {
	return r.Stage == StageFallback
}

// Parse decodes raw into T. The whole text is tried first, then every
// balanced object embedded in surrounding prose, and finally fallback.
// A well-formed object is never discarded because of a wrongly typed field:
// such fields stay zero. Among embedded candidates a clean decode wins over a
// partial one.
func Parse[T any](raw string, fallback T) (T, Result) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return fallback, Result{Stage: StageFallback, Err: ErrEmpty}
	}

	var out T
	mismatch, strictErr := DecodeObject([]byte(text), &out)
	if strictErr == nil {
		return out, Result{Stage: StageStrict, JSON: text, Mismatch: mismatch}
	}

	var (
		partial    T
		partialRes *Result
	)
	for _, candidate := range candidates(text) {
		var v T
		mismatch, err := DecodeObject([]byte(candidate), &v)
		if err != nil {
			continue
		}
		if mismatch == nil {
			return v, Result{Stage: StageEmbedded, JSON: candidate}
		}
		if partialRes == nil {
			partial = v
			partialRes = &Result{Stage: StageEmbedded, JSON: candidate, Mismatch: mismatch}
		}
	}
	if partialRes != nil {
		return partial, *partialRes
	}

	return fallback, Result{Stage: StageFallback, Err: fmt.Errorf("%w (strict: %v)", ErrNoEmbedded, strictErr)}
}

// DecodeObject decodes a JSON object into out on a best-effort basis. It
// fails only when data is not a syntactically valid object. A value that does
// not fit its field's type leaves that field zero and is reported as mismatch;
// every other field is still decoded. out is untouched on failure.
func DecodeObject[T any](data []byte, out *T) (mismatch error, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmpty
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, ErrNotObject
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
		mismatch = typeErr
	}
	*out = v
	return mismatch, nil
}

// Extract returns the first embedded JSON object that is syntactically valid.
func Extract(raw string) (string, bool) {
	for _, candidate := range candidates(raw) {
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// candidates lists balanced {...} spans left to right, then the greedy span
// from the first '{' to the last '}' when it is not already listed.
func candidates(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for start := strings.IndexByte(text, '{'); start >= 0; {
		end := matchBrace(text, start)
		if end > start {
			add(text[start : end+1])
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first >= 0 && last > first {
		add(text[first : last+1])
	}
	return out
}

// matchBrace returns the index of the brace closing the one at start, or -1.
// Braces inside JSON strings are ignored.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
