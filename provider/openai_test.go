package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZaguanLabs/lingo"
)

// chatReply is a minimal chat completion body with content as the answer.
func chatReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  DefaultOpenAIModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIProvider(Config{APIKey: "test", BaseURL: srv.URL + "/v1"})
}

func TestOpenAIProvider_Invoke(t *testing.T) {
	var got map[string]any
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, chatReply(`Sure: {"a": "Pomme"}`))
	})

	resp, err := p.Invoke(context.Background(), lingo.Request{Prompt: "Translate"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if resp.Text != `Sure: {"a": "Pomme"}` {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.Structured != nil {
		t.Error("Free-text request should not return structured output")
	}
	if got["model"] != DefaultOpenAIModel {
		t.Errorf("Expected default model, got %v", got["model"])
	}
	if _, ok := got["response_format"]; ok {
		t.Error("Free-text request should not set a response format")
	}
}

func TestOpenAIProvider_Invoke_Schema(t *testing.T) {
	var got struct {
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string          `json:"name"`
				Strict bool            `json:"strict"`
				Schema json.RawMessage `json:"schema"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, chatReply(`{"translations":[{"key":"a","value":"Pomme"}]}`))
	})

	resp, err := p.Invoke(context.Background(), lingo.Request{Prompt: "Translate", Schema: lingo.TranslationSchema()})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if got.ResponseFormat.Type != "json_schema" || !got.ResponseFormat.JSONSchema.Strict {
		t.Errorf("Expected strict json_schema format, got %+v", got.ResponseFormat)
	}
	if got.ResponseFormat.JSONSchema.Name != "translations" {
		t.Errorf("Unexpected schema name: %q", got.ResponseFormat.JSONSchema.Name)
	}
	if !strings.Contains(string(resp.Structured), "Pomme") {
		t.Errorf("Expected structured output, got %s", resp.Structured)
	}
}

func TestOpenAIProvider_Invoke_RateLimited(t *testing.T) {
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"Rate limit reached","type":"requests"}}`)
	})

	_, err := p.Invoke(context.Background(), lingo.Request{Prompt: "x"})

	var provErr *lingo.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if !lingo.IsRateLimited(err) {
		t.Errorf("Expected rate-limit classification for %q", err.Error())
	}
}

func TestOpenAIProvider_Invoke_URLToolUnsupported(t *testing.T) {
	p := NewOpenAIProvider(Config{APIKey: "test"})

	_, err := p.Invoke(context.Background(), lingo.Request{Prompt: "x", Tools: []lingo.Tool{lingo.ToolURLFetch}})
	if err == nil {
		t.Fatal("Expected error for URL tool")
	}
	if p.Capabilities().URLFetch {
		t.Error("OpenAI should not advertise URL fetching")
	}
}

func TestOpenAIProvider_Stream(t *testing.T) {
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{`[{"key":`, `"a"}]`} {
			chunk, _ := json.Marshal(map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion.chunk",
				"choices": []map[string]any{{"index": 0, "delta": map[string]any{"content": part}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		io.WriteString(w, "data: [DONE]\n\n")
	})

	var text strings.Builder
	for chunk, err := range p.Stream(context.Background(), lingo.Request{Prompt: "x"}) {
		if err != nil {
			t.Fatalf("Stream failed: %v", err)
		}
		text.WriteString(chunk)
	}

	if text.String() != `[{"key":"a"}]` {
		t.Errorf("Unexpected streamed text: %q", text.String())
	}
}

func TestOpenAIProvider_Verify_Rejected(t *testing.T) {
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":{"message":"Incorrect API key provided"}}`)
			return
		}
		io.WriteString(w, `{"object":"list","data":[]}`)
	})

	if err := p.verify(context.Background()); err == nil {
		t.Error("Expected the test key to be rejected")
	}
}

func TestOpenAIProvider_NoChoicesFallsBack(t *testing.T) {
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"chatcmpl-2","object":"chat.completion","model":"gpt-4o-mini","choices":[]}`)
	})

	messages := lingo.NewMessageMap(
		lingo.Entry{Key: "a", Value: "Hello"},
		lingo.Entry{Key: "b", Value: "Bye"},
	)
	got, err := lingo.Translate(context.Background(), p, messages, lingo.TranslateOptions{TargetLang: "fr"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if got.Len() != 2 {
		t.Fatalf("Expected every key, got %d", got.Len())
	}
	for _, key := range []string{"a", "b"} {
		want, _ := messages.Get(key)
		if v, _ := got.Get(key); v != want {
			t.Errorf("%s: expected source fallback %q, got %q", key, want, v)
		}
	}
}
