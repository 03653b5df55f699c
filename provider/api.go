package provider

import (
	"context"
	"iter"
	"net/http"

	"github.com/ZaguanLabs/lingo"
	"github.com/ZaguanLabs/lingo/website"
)

// Target selects the provider, model and credential for one call.
type Target struct {
	Provider Name   // Default: gemini
	Model    string // Provider default when empty
	APIKey   string
	BaseURL  string       // Optional endpoint override
	Client   *http.Client // Used for model calls and page fetching
}

func (t Target) invoker(ctx context.Context) (lingo.StreamInvoker, error) {
	name := t.Provider
	if name == "" {
		name = NameGemini
	}
	return New(ctx, name, Config{
		APIKey:     t.APIKey,
		Model:      t.Model,
		BaseURL:    t.BaseURL,
		HTTPClient: t.Client,
	})
}

func (t Target) engine(ctx context.Context, opts []lingo.EngineOption) (*lingo.Engine, error) {
	inv, err := t.invoker(ctx)
	if err != nil {
		return nil, err
	}
	opts = append([]lingo.EngineOption{lingo.WithPageReader(website.NewReader(t.Client))}, opts...)
	return lingo.NewEngine(inv, opts...), nil
}

// Translate translates messages with the selected provider.
func Translate(ctx context.Context, t Target, messages *lingo.MessageMap, opts lingo.TranslateOptions, engineOpts ...lingo.EngineOption) (*lingo.MessageMap, error) {
	engine, err := t.engine(ctx, engineOpts)
	if err != nil {
		return nil, err
	}
	return engine.Translate(ctx, messages, opts)
}

// Revise proofreads messages with the selected provider.
func Revise(ctx context.Context, t Target, messages *lingo.MessageMap, opts lingo.ReviseOptions, engineOpts ...lingo.EngineOption) ([]lingo.Suggestion, error) {
	engine, err := t.engine(ctx, engineOpts)
	if err != nil {
		return nil, err
	}
	return engine.Revise(ctx, messages, opts)
}

// AdviseWebsite reviews the page at url with the selected provider.
func AdviseWebsite(ctx context.Context, t Target, url string, opts lingo.AdviseOptions, engineOpts ...lingo.EngineOption) ([]lingo.Suggestion, error) {
	engine, err := t.engine(ctx, engineOpts)
	if err != nil {
		return nil, err
	}
	return engine.AdviseWebsite(ctx, url, opts)
}

// AdviseWebsiteStream streams suggestions for the page at url. Setup
// failures are yielded as the only element.
func AdviseWebsiteStream(ctx context.Context, t Target, url string, opts lingo.AdviseOptions, engineOpts ...lingo.EngineOption) iter.Seq2[lingo.Suggestion, error] {
	engine, err := t.engine(ctx, engineOpts)
	if err != nil {
		return func(yield func(lingo.Suggestion, error) bool) {
			yield(lingo.Suggestion{}, err)
		}
	}
	return engine.AdviseWebsiteStream(ctx, url, opts)
}
