package llm

import (
	"context"
)

// Provider is the handle to a generative text service.
// Consumers call Generate with a Request and receive the raw text response.
// Parsing and shaping the text is the caller's job.
type Provider interface {
	// Generate sends a prompt to the service and returns its unstructured
	// text. The request's Schema field, when set, is passed along as a
	// response-shape hint using the provider's native mechanism. The text
	// is returned as-is; nothing is validated here.
	//
	// Every failure is reported as a *ServiceError.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the service.
type Request struct {
	// System is the fixed instruction preamble. Sets the role and the
	// output-shape rules.
	System string

	// Messages is the conversation history. Every call in prepcoach is
	// single-turn, so this holds one user message with the task body.
	Messages []Message

	// Schema is the expected response shape. Sent as a hint only.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the service.
type Schema struct {
	// Name identifies this schema (used as schema name for OpenAI).
	// Kebab-case, e.g. "answer-evaluation".
	Name string

	// Description is a human-readable description of what this schema
	// represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// RootType returns the JSON type of the schema root ("object", "array"),
// or "" when the schema is nil or untyped.
func (s *Schema) RootType() string {
	if s == nil {
		return ""
	}
	t, _ := s.Definition["type"].(string)
	return t
}

// Response holds the service output.
type Response struct {
	// Text is the raw generated text.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
