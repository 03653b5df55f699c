package provider

import (
	"context"
	"iter"

	"github.com/ZaguanLabs/lingo"
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"
)

// GeminiProvider implements lingo.StreamInvoker using the Gemini API. It is
// the only provider that can open URLs itself.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, &lingo.ProviderError{Provider: string(NameGemini), Message: "client setup failed", Cause: err}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: cfg.temperature(),
		maxTokens:   int32(cfg.maxTokens()),
	}, nil
}

// Capabilities implements lingo.Invoker.
func (p *GeminiProvider) Capabilities() lingo.Capabilities {
	return lingo.Capabilities{StructuredOutput: true, URLFetch: true, Streaming: true}
}

// Invoke sends one generation request. Tools and a response schema are not
// combined: a request with tools is answered as free text.
func (p *GeminiProvider) Invoke(ctx context.Context, req lingo.Request) (*lingo.Response, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), p.generateConfig(req))
	if err != nil {
		return nil, &lingo.ProviderError{
			Provider: string(NameGemini),
			Message:  "API call failed",
			Cause:    err,
		}
	}

	text := resp.Text()
	out := &lingo.Response{Text: text}
	if req.Schema != nil && len(req.Tools) == 0 && text != "" {
		out.Structured = []byte(text)
	}
	return out, nil
}

// Stream yields text as the model generates it.
func (p *GeminiProvider) Stream(ctx context.Context, req lingo.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cfg := p.generateConfig(req)
		cfg.ResponseMIMEType = ""
		cfg.ResponseSchema = nil

		for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, genai.Text(req.Prompt), cfg) {
			if err != nil {
				yield("", &lingo.ProviderError{Provider: string(NameGemini), Message: "stream failed", Cause: err})
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// verify asks for a single token.
func (p *GeminiProvider) verify(ctx context.Context) error {
	_, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text("ping"), &genai.GenerateContentConfig{
		MaxOutputTokens: 1,
	})
	return err
}

func (p *GeminiProvider) generateConfig(req lingo.Request) *genai.GenerateContentConfig {
	temperature := p.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: p.maxTokens,
	}

	if req.HasTool(lingo.ToolURLFetch) {
		cfg.Tools = []*genai.Tool{{URLContext: &genai.URLContext{}}}
		return cfg
	}

	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGeminiSchema(req.Schema.Definition)
	}
	return cfg
}

// toGeminiSchema converts a JSON schema definition to the Gemini schema
// subset. additionalProperties has no Gemini equivalent and is dropped.
func toGeminiSchema(def jsonschema.Definition) *genai.Schema {
	s := &genai.Schema{
		Description: def.Description,
		Enum:        def.Enum,
		Required:    def.Required,
	}

	switch def.Type {
	case jsonschema.Object:
		s.Type = genai.TypeObject
	case jsonschema.Array:
		s.Type = genai.TypeArray
	case jsonschema.Number:
		s.Type = genai.TypeNumber
	case jsonschema.Integer:
		s.Type = genai.TypeInteger
	case jsonschema.Boolean:
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
	}

	if def.Items != nil {
		s.Items = toGeminiSchema(*def.Items)
	}

	if len(def.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(def.Properties))
		for name, prop := range def.Properties {
			s.Properties[name] = toGeminiSchema(prop)
		}
		// Keep the declared field order stable for the model
		s.PropertyOrdering = def.Required
	}

	return s
}

// Verify GeminiProvider implements lingo.StreamInvoker
var _ lingo.StreamInvoker = (*GeminiProvider)(nil)
