package lingo

import (
	"context"
	"iter"

	"github.com/apex/log"
)

// PageReader extracts the visible labels of a web page as an ordered
// MessageMap keyed "<category>.<n>".
type PageReader interface {
	ReadLabels(ctx context.Context, url string) (*MessageMap, error)
}

// Engine drives batched translation, revision and website advice against
// one model invoker. An Engine holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	invoker   Invoker
	batchSize int
	retry     RetryConfig
	logger    log.Interface
	rateLimit *RateLimitConfig
	observer  BatchObserver
	pages     PageReader
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithBatchSize sets the number of entries per model call.
func WithBatchSize(size int) EngineOption {
	return func(e *Engine) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithRetryConfig sets the rate-limit retry policy.
func WithRetryConfig(cfg RetryConfig) EngineOption {
	return func(e *Engine) {
		e.retry = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Interface) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRateLimit paces model calls with a token bucket.
func WithRateLimit(cfg RateLimitConfig) EngineOption {
	return func(e *Engine) {
		e.rateLimit = &cfg
	}
}

// WithBatchObserver registers a callback that receives a report per batch.
func WithBatchObserver(fn BatchObserver) EngineOption {
	return func(e *Engine) {
		e.observer = fn
	}
}

// WithPageReader sets how website labels are fetched when the invoker
// cannot open URLs itself.
func WithPageReader(r PageReader) EngineOption {
	return func(e *Engine) {
		e.pages = r
	}
}

// NewEngine creates a new Engine that sends prompts to invoker.
func NewEngine(invoker Invoker, opts ...EngineOption) *Engine {
	e := &Engine{
		invoker:   invoker,
		batchSize: DefaultBatchSize,
		retry:     DefaultRetryConfig(),
		logger:    log.Log,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// TranslateOptions configures a translation run.
type TranslateOptions struct {
	TargetLang string
	Context    string
	OnProgress ProgressFunc
}

// ReviseOptions configures a revision run.
type ReviseOptions struct {
	ErrorTypes []ErrorType
	Context    string
	OnProgress ProgressFunc
}

// AdviseOptions configures a website review.
type AdviseOptions struct {
	ErrorTypes []ErrorType
	OnProgress ProgressFunc
}

// Translate translates every value of messages into opts.TargetLang. The
// result holds every input key in input order; entries of batches whose
// output could not be used keep their source text.
func (e *Engine) Translate(ctx context.Context, messages *MessageMap, opts TranslateOptions) (*MessageMap, error) {
	result := NewMessageMap()
	if messages.Len() == 0 {
		return result, nil
	}

	inv := e.pacedInvoker()
	structured := inv.Capabilities().StructuredOutput
	system := BuildSystemPrompt(opts.TargetLang, opts.Context)

	err := e.run(ctx, messages.Entries(), opts.OnProgress, func(batch []Entry) (bool, error) {
		req := Request{Prompt: BuildTranslationPrompt(system, batch)}
		if structured {
			req.Schema = TranslationSchema()
		}

		resp, err := e.invoke(ctx, inv, req)
		if err != nil {
			return false, err
		}
		return reconcileTranslation(batch, resp, structured, result), nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Revise proofreads messages for the selected error types. Messages without
// issues produce no suggestion.
func (e *Engine) Revise(ctx context.Context, messages *MessageMap, opts ReviseOptions) ([]Suggestion, error) {
	types := opts.ErrorTypes
	if len(types) == 0 {
		types = RevisionErrorTypes
	}
	system := BuildRevisionSystemPrompt(types, opts.Context)

	return e.suggest(ctx, messages.Entries(), opts.OnProgress, types, false, func(batch []Entry) string {
		return BuildRevisionPrompt(system, batch)
	})
}

// AdviseWebsite reviews the visible text of the page at url. Invokers that
// can open URLs receive a single prompt; otherwise the page labels are read
// first and reviewed in batches.
func (e *Engine) AdviseWebsite(ctx context.Context, url string, opts AdviseOptions) ([]Suggestion, error) {
	types := opts.ErrorTypes
	if len(types) == 0 {
		types = WebsiteErrorTypes
	}

	inv := e.pacedInvoker()
	if inv.Capabilities().URLFetch {
		req := Request{
			Prompt: BuildAdviseWebsitePrompt(types, url),
			Tools:  []Tool{ToolURLFetch},
		}
		resp, err := e.invoke(ctx, inv, req)
		if err != nil {
			return nil, err
		}

		suggestions, parsed := reconcileSuggestions(resp, false)
		e.report(BatchReport{Index: 0, Size: 1, Parsed: parsed})
		if opts.OnProgress != nil {
			opts.OnProgress(1, 1)
		}
		return suggestions, nil
	}

	labels, err := e.readLabels(ctx, url)
	if err != nil {
		return nil, err
	}

	system := BuildAdviseLabelsSystemPrompt(types, url)
	return e.suggest(ctx, labels.Entries(), opts.OnProgress, types, true, func(batch []Entry) string {
		return BuildAdviseLabelsPrompt(system, batch)
	})
}

// AdviseWebsiteStream is AdviseWebsite yielding each suggestion as soon as
// the model has finished writing it. The sequence ends when generation ends,
// when ctx is cancelled or when the caller stops ranging. A failure is
// yielded once as the final element; cancellation yields nothing.
func (e *Engine) AdviseWebsiteStream(ctx context.Context, url string, opts AdviseOptions) iter.Seq2[Suggestion, error] {
	return func(yield func(Suggestion, error) bool) {
		types := opts.ErrorTypes
		if len(types) == 0 {
			types = WebsiteErrorTypes
		}

		inv := e.pacedInvoker()
		streamer, ok := inv.(StreamInvoker)
		if !ok || !inv.Capabilities().Streaming {
			yield(Suggestion{}, &ConfigError{Field: "provider", Message: "streaming not supported"})
			return
		}

		if inv.Capabilities().URLFetch {
			req := Request{
				Prompt: BuildAdviseWebsitePrompt(types, url),
				Tools:  []Tool{ToolURLFetch},
			}
			e.streamSuggestions(ctx, streamer, req, yield)
			return
		}

		labels, err := e.readLabels(ctx, url)
		if err != nil {
			if ctx.Err() == nil {
				yield(Suggestion{}, err)
			}
			return
		}

		system := BuildAdviseLabelsSystemPrompt(types, url)
		for _, batch := range Partition(labels.Entries(), e.batchSize) {
			req := Request{Prompt: BuildAdviseLabelsPrompt(system, batch)}
			if !e.streamSuggestions(ctx, streamer, req, yield) {
				return
			}
		}
	}
}

// streamSuggestions streams one request through a fresh parser. It returns
// false once the sequence must end.
func (e *Engine) streamSuggestions(ctx context.Context, s StreamInvoker, req Request, yield func(Suggestion, error) bool) bool {
	parser := NewStreamParser()

	for chunk, err := range s.Stream(ctx, req) {
		// A cancelled caller gets no further elements, not even the error.
		if ctx.Err() != nil {
			return false
		}
		if err != nil {
			yield(Suggestion{}, err)
			return false
		}
		for _, raw := range parser.Feed(chunk) {
			sg, ok := decodeSuggestion(raw)
			if !ok {
				continue
			}
			if !yield(sg, nil) {
				return false
			}
		}
	}

	if parser.Pending() {
		e.logger.Debug("stream ended inside an object")
	}
	return ctx.Err() == nil
}

// suggest runs the batch loop for tasks that produce suggestions.
func (e *Engine) suggest(ctx context.Context, entries []Entry, onProgress ProgressFunc, types []ErrorType, website bool, prompt func([]Entry) string) ([]Suggestion, error) {
	suggestions := []Suggestion{}
	if len(entries) == 0 {
		return suggestions, nil
	}

	inv := e.pacedInvoker()
	structured := inv.Capabilities().StructuredOutput

	err := e.run(ctx, entries, onProgress, func(batch []Entry) (bool, error) {
		req := Request{Prompt: prompt(batch)}
		if structured {
			req.Schema = SuggestionSchema(types, website)
		}

		resp, err := e.invoke(ctx, inv, req)
		if err != nil {
			return false, err
		}
		found, parsed := reconcileSuggestions(resp, structured)
		suggestions = append(suggestions, found...)
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}

	return suggestions, nil
}

// run partitions entries and processes the batches strictly in order,
// reporting cumulative progress after each one.
func (e *Engine) run(ctx context.Context, entries []Entry, onProgress ProgressFunc, process func([]Entry) (bool, error)) error {
	total := len(entries)
	processed := 0

	for i, batch := range Partition(entries, e.batchSize) {
		parsed, err := process(batch)
		if err != nil {
			e.logger.WithFields(log.Fields{
				"batch": i,
				"size":  len(batch),
			}).WithError(err).Error("batch failed")
			return err
		}

		processed += len(batch)
		e.logger.WithFields(log.Fields{
			"batch":  i,
			"size":   len(batch),
			"parsed": parsed,
		}).Debug("batch reconciled")
		e.report(BatchReport{Index: i, Size: len(batch), Parsed: parsed})

		if onProgress != nil {
			onProgress(processed, total)
		}
	}

	return nil
}

func (e *Engine) invoke(ctx context.Context, inv Invoker, req Request) (*Response, error) {
	return withRetry(ctx, e.retry, e.logger, func() (*Response, error) {
		return inv.Invoke(ctx, req)
	})
}

// pacedInvoker returns the invoker, wrapped with pacing when configured. The
// limiter is created per call so separate calls share no state.
func (e *Engine) pacedInvoker() Invoker {
	if e.rateLimit == nil {
		return e.invoker
	}
	return NewRateLimitedInvoker(e.invoker, *e.rateLimit)
}

func (e *Engine) readLabels(ctx context.Context, url string) (*MessageMap, error) {
	if e.pages == nil {
		return nil, &ConfigError{Field: "pageReader", Message: "provider cannot open URLs and no page reader is configured"}
	}
	return e.pages.ReadLabels(ctx, url)
}

func (e *Engine) report(r BatchReport) {
	if e.observer != nil {
		e.observer(r)
	}
}

// Translate is a convenience wrapper around Engine.Translate.
func Translate(ctx context.Context, invoker Invoker, messages *MessageMap, opts TranslateOptions, engineOpts ...EngineOption) (*MessageMap, error) {
	return NewEngine(invoker, engineOpts...).Translate(ctx, messages, opts)
}

// Revise is a convenience wrapper around Engine.Revise.
func Revise(ctx context.Context, invoker Invoker, messages *MessageMap, opts ReviseOptions, engineOpts ...EngineOption) ([]Suggestion, error) {
	return NewEngine(invoker, engineOpts...).Revise(ctx, messages, opts)
}
