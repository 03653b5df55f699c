package provider

import (
	"context"
	"encoding/json"
	"iter"
	"sync"

	"github.com/ZaguanLabs/lingo"
)

// MockResponse is one scripted answer of a MockProvider.
type MockResponse struct {
	Text       string
	Structured json.RawMessage
	Err        error
}

// MockProvider is a scripted invoker for testing. Responses are returned in
// order; the last one repeats once the script is exhausted.
type MockProvider struct {
	Responses []MockResponse     // Answers for Invoke
	Chunks    []string           // Text yielded by Stream
	Caps      lingo.Capabilities // Reported capabilities
	CallCount int                // Number of Invoke and Stream calls
	Requests  []lingo.Request    // Every request received

	mu sync.Mutex
}

// NewMockProvider creates a mock that answers with the given responses and
// advertises streaming.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{
		Responses: responses,
		Caps:      lingo.Capabilities{Streaming: true},
	}
}

// Invoke returns the next scripted response.
func (m *MockProvider) Invoke(ctx context.Context, req lingo.Request) (*lingo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.Requests = append(m.Requests, req)

	if len(m.Responses) == 0 {
		return &lingo.Response{}, nil
	}

	idx := min(m.CallCount-1, len(m.Responses)-1)
	r := m.Responses[idx]
	if r.Err != nil {
		return nil, r.Err
	}
	return &lingo.Response{Text: r.Text, Structured: r.Structured}, nil
}

// Capabilities returns Caps.
func (m *MockProvider) Capabilities() lingo.Capabilities {
	return m.Caps
}

// Stream yields Chunks in order, stopping early when ctx is done.
func (m *MockProvider) Stream(ctx context.Context, req lingo.Request) iter.Seq2[string, error] {
	m.mu.Lock()
	m.CallCount++
	m.Requests = append(m.Requests, req)
	chunks := append([]string(nil), m.Chunks...)
	m.mu.Unlock()

	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

// Reset clears the recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.Requests = nil
}

// Verify MockProvider implements lingo.StreamInvoker
var _ lingo.StreamInvoker = (*MockProvider)(nil)
