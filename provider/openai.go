package provider

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/ZaguanLabs/lingo"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements lingo.StreamInvoker using OpenAI's API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: cfg.temperature(),
		maxTokens:   cfg.maxTokens(),
	}
}

// Capabilities implements lingo.Invoker.
func (p *OpenAIProvider) Capabilities() lingo.Capabilities {
	return lingo.Capabilities{StructuredOutput: true, Streaming: true}
}

// Invoke sends one chat completion. With a schema, the answer is requested
// in strict JSON schema mode and returned as Structured.
func (p *OpenAIProvider) Invoke(ctx context.Context, req lingo.Request) (*lingo.Response, error) {
	if req.HasTool(lingo.ToolURLFetch) {
		return nil, &lingo.ProviderError{Provider: string(NameOpenAI), Message: "URL fetching is not supported"}
	}

	resp, err := p.client.CreateChatCompletion(ctx, p.chatRequest(req))
	if err != nil {
		return nil, &lingo.ProviderError{
			Provider: string(NameOpenAI),
			Message:  "API call failed",
			Cause:    err,
		}
	}

	if len(resp.Choices) == 0 {
		return &lingo.Response{}, nil
	}

	content := resp.Choices[0].Message.Content
	out := &lingo.Response{Text: content}
	if req.Schema != nil && content != "" {
		out.Structured = []byte(content)
	}
	return out, nil
}

// Stream yields the content deltas of a streamed chat completion.
func (p *OpenAIProvider) Stream(ctx context.Context, req lingo.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		chatReq := p.chatRequest(req)
		chatReq.ResponseFormat = nil
		chatReq.Stream = true

		stream, err := p.client.CreateChatCompletionStream(ctx, chatReq)
		if err != nil {
			yield("", &lingo.ProviderError{Provider: string(NameOpenAI), Message: "stream failed", Cause: err})
			return
		}
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", &lingo.ProviderError{Provider: string(NameOpenAI), Message: "stream failed", Cause: err})
				return
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}
	}
}

// verify lists models, which succeeds only for a valid key.
func (p *OpenAIProvider) verify(ctx context.Context) error {
	_, err := p.client.ListModels(ctx)
	return err
}

func (p *OpenAIProvider) chatRequest(req lingo.Request) openai.ChatCompletionRequest {
	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature:         p.temperature,
		MaxCompletionTokens: p.maxTokens,
	}

	if req.Schema != nil {
		def := req.Schema.Definition
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: &def,
				Strict: true,
			},
		}
	}

	return chatReq
}

// Verify OpenAIProvider implements lingo.StreamInvoker
var _ lingo.StreamInvoker = (*OpenAIProvider)(nil)
