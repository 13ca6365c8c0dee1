// Package extract recovers structured payloads from free-form generation
// output. It tolerates code fences and surrounding prose. A truncated
// payload is never patched; it yields an unshaped result.
package extract

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/prepcoach/internal/llm"
)

// MaxInputBytes bounds the text examined by Extract. Longer input is
// truncated before scanning.
const MaxInputBytes = 1 << 20

// Result is the outcome of an extraction.
type Result struct {
	// Data is the recovered payload. For unshaped results it is the wrapper
	// object {"raw": <original text>}.
	Data json.RawMessage

	// Shaped reports whether Data has the root type the shape expects.
	Shaped bool

	// Issues is set when a shaped payload does not conform to the schema.
	Issues *ValidationError
}

// Decode unmarshals Data into v.
func (r *Result) Decode(v any) error {
	return json.Unmarshal(r.Data, v)
}

// Extract parses raw generation output into a structured result.
//
// It only fails with *ExtractionError when raw is empty or whitespace. All
// other input yields a Result, unshaped when no payload of the expected root
// type could be recovered.
func Extract(raw string, shape *llm.Schema) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ExtractionError{Reason: "empty response"}
	}

	text := strings.TrimSpace(stripFences(strings.TrimSpace(truncate(raw, MaxInputBytes))))
	root := shape.RootType()
	openers := openersFor(root)
	accept := func(s string) bool { return matchesRoot(s, root) }

	if accept(text) {
		return shaped(text, shape), nil
	}

	if sp, ok := bestSpan(text, 0, len(text), openers, accept, 0); ok {
		return shaped(text[sp.start:sp.end], shape), nil
	}

	return unshaped(raw), nil
}

func shaped(payload string, shape *llm.Schema) *Result {
	data := json.RawMessage(payload)
	return &Result{
		Data:   data,
		Shaped: true,
		Issues: checkShape(shape, data),
	}
}

func unshaped(raw string) *Result {
	data, _ := json.Marshal(map[string]string{"raw": raw})
	return &Result{Data: data}
}

// openersFor returns the bracket characters that can start a payload of the
// given root type.
func openersFor(root string) string {
	switch root {
	case "object":
		return "{"
	case "array":
		return "["
	default:
		return "{["
	}
}

// matchesRoot reports whether s is valid JSON whose root is of the expected
// type. An empty root accepts any object or array.
func matchesRoot(s, root string) bool {
	if !json.Valid([]byte(s)) {
		return false
	}
	b := bytes.TrimSpace([]byte(s))
	if len(b) == 0 {
		return false
	}
	switch root {
	case "object":
		return b[0] == '{'
	case "array":
		return b[0] == '['
	case "":
		return b[0] == '{' || b[0] == '['
	default:
		return true
	}
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag. Text that is not wrapped in a fence is returned unchanged.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		// Single line: ```{...}```
		s = strings.TrimPrefix(s, "```")
		return strings.TrimSuffix(s, "```")
	}
	body := s[nl+1:]
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return body
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}
