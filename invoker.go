package lingo

import (
	"context"
	"encoding/json"
	"iter"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool is a capability the model may use while answering.
type Tool string

const (
	// ToolURLFetch lets the model read a web page by URL.
	ToolURLFetch Tool = "url_fetch"
)

// Schema requests structured output conforming to Definition.
type Schema struct {
	Name       string
	Definition jsonschema.Definition
}

// Request is a single prompt sent to a model.
type Request struct {
	Prompt string
	Tools  []Tool
	Schema *Schema // nil for free text
}

// HasTool reports whether the request asks for tool t.
func (r Request) HasTool(t Tool) bool {
	for _, have := range r.Tools {
		if have == t {
			return true
		}
	}
	return false
}

// Response is the raw model answer. Structured is set only when the provider
// returned schema-conforming output for a request with a Schema.
type Response struct {
	Text       string
	Structured json.RawMessage
}

// Capabilities describes what a provider supports.
type Capabilities struct {
	StructuredOutput bool
	URLFetch         bool
	Streaming        bool
}

// Invoker is the interface for language model backends. Each call performs
// exactly one outbound request; retries are the caller's concern.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
	Capabilities() Capabilities
}

// StreamInvoker is an Invoker that can stream generated text.
type StreamInvoker interface {
	Invoker
	// Stream yields text chunks as the model generates them. A non-nil error
	// ends the sequence.
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}
