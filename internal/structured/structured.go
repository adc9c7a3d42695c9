// Package structured decodes JSON produced by language models into typed
// values. Output is cleaned of markdown fences and surrounding prose, then
// validated against a JSON schema derived from the target type before it is
// decoded. Failures are reported as a tagged Result instead of an error so
// callers decide on their own fallback.
package structured

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/haikalllp/spinai-fork/internal/util"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrorKind classifies a ParseError.
type ErrorKind string

const (
	KindEmpty  ErrorKind = "empty"
	KindSyntax ErrorKind = "syntax"
	KindSchema ErrorKind = "schema"
)

// ParseError describes why model output could not be decoded.
type ParseError struct {
	Kind  ErrorKind
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("structured output: %s", e.Kind)
	}

	return fmt.Sprintf("structured output: %s: %v", e.Kind, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Result is either a decoded Value or a ParseError.
type Result[T any] struct {
	Value T
	Err   *ParseError
}

// OK reports whether decoding succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Or returns the decoded value, or fallback when decoding failed.
func (r Result[T]) Or(fallback T) T {
	if r.Err != nil {
		return fallback
	}

	return r.Value
}

// Schema is a compiled JSON schema bound to the Go type T.
type Schema[T any] struct {
	compiled *jsonschema.Schema
}

// NewSchema derives and compiles the schema for T.
func NewSchema[T any]() (*Schema[T], error) {
	var zero T

	raw, err := json.Marshal(util.CreateSchema(zero))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiled, err := jsonschema.CompileString(fmt.Sprintf("mem://%T.json", zero), string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Schema[T]{compiled: compiled}, nil
}

// MustSchema is like NewSchema but panics on error. Use it for package-level vars.
func MustSchema[T any]() *Schema[T] {
	s, err := NewSchema[T]()
	if err != nil {
		panic(err)
	}

	return s
}

// Decode extracts, validates and decodes raw model output.
func (s *Schema[T]) Decode(raw string) Result[T] {
	var res Result[T]

	body := ExtractJSON(raw)
	if body == "" {
		res.Err = &ParseError{Kind: KindEmpty, Raw: raw}
		return res
	}

	var generic any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		res.Err = &ParseError{Kind: KindSyntax, Raw: raw, Cause: err}
		return res
	}

	if err := s.compiled.Validate(generic); err != nil {
		res.Err = &ParseError{Kind: KindSchema, Raw: raw, Cause: err}
		return res
	}

	if err := json.Unmarshal([]byte(body), &res.Value); err != nil {
		res.Err = &ParseError{Kind: KindSyntax, Raw: raw, Cause: err}
	}

	return res
}

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*[ \t]*\r?\n(.*?)\r?\n?```\\s*$")

// StripFence removes a markdown code fence wrapping the whole text.
func StripFence(text string) string {
	t := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1])
	}

	return t
}

// ExtractJSON returns the outermost JSON object or array in text, ignoring
// fences and prose around it. It returns "" when none is found.
func ExtractJSON(text string) string {
	t := StripFence(text)
	if t == "" {
		return ""
	}

	if t[0] == '{' || t[0] == '[' {
		return t
	}

	start := strings.IndexAny(t, "{[")
	if start < 0 {
		return ""
	}

	closer := byte('}')
	if t[start] == '[' {
		closer = ']'
	}

	end := strings.LastIndexByte(t, closer)
	if end <= start {
		return ""
	}

	return t[start : end+1]
}
