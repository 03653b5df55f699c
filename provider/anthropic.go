package provider

import (
	"context"
	"iter"
	"strings"

	"github.com/ZaguanLabs/lingo"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements lingo.StreamInvoker using the Anthropic
// Messages API. Answers are always free text.
type AnthropicProvider struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg Config) *AnthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	return &AnthropicProvider{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: float64(cfg.temperature()),
		maxTokens:   int64(cfg.maxTokens()),
	}
}

// Capabilities implements lingo.Invoker.
func (p *AnthropicProvider) Capabilities() lingo.Capabilities {
	return lingo.Capabilities{Streaming: true}
}

// Invoke sends one message and returns the concatenated text blocks.
func (p *AnthropicProvider) Invoke(ctx context.Context, req lingo.Request) (*lingo.Response, error) {
	if req.HasTool(lingo.ToolURLFetch) {
		return nil, &lingo.ProviderError{Provider: string(NameAnthropic), Message: "URL fetching is not supported"}
	}

	message, err := p.client.Messages.New(ctx, p.messageParams(req.Prompt, p.maxTokens))
	if err != nil {
		return nil, &lingo.ProviderError{
			Provider: string(NameAnthropic),
			Message:  "API call failed",
			Cause:    err,
		}
	}

	// A message without text blocks is an empty answer, not a failure.
	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &lingo.Response{Text: text.String()}, nil
}

// Stream yields the text deltas of a streamed message.
func (p *AnthropicProvider) Stream(ctx context.Context, req lingo.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := p.client.Messages.NewStreaming(ctx, p.messageParams(req.Prompt, p.maxTokens))
		defer stream.Close()

		for stream.Next() {
			event, ok := stream.Current().AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			delta, ok := event.Delta.AsAny().(anthropic.TextDelta)
			if !ok || delta.Text == "" {
				continue
			}
			if !yield(delta.Text, nil) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			yield("", &lingo.ProviderError{Provider: string(NameAnthropic), Message: "stream failed", Cause: err})
		}
	}
}

// verify sends a one-token message.
func (p *AnthropicProvider) verify(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, p.messageParams("ping", 1))
	return err
}

func (p *AnthropicProvider) messageParams(prompt string, maxTokens int64) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(p.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

// Verify AnthropicProvider implements lingo.StreamInvoker
var _ lingo.StreamInvoker = (*AnthropicProvider)(nil)
