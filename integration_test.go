package lingo_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/lingo"
	"github.com/ZaguanLabs/lingo/provider"
	"github.com/ZaguanLabs/lingo/website"
)

// Integration tests wiring the engine to real components. Tests that call a
// live provider only run when LINGO_INTEGRATION=1 and the key is set.

func liveTarget(t *testing.T, name provider.Name, env string) provider.Target {
	t.Helper()
	if os.Getenv("LINGO_INTEGRATION") != "1" {
		t.Skip("set LINGO_INTEGRATION=1 to call live providers")
	}
	key := os.Getenv(env)
	if key == "" {
		t.Skipf("%s not set", env)
	}
	return provider.Target{Provider: name, APIKey: key}
}

func TestIntegration_AdviseWebsite_ExtractedLabels(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Wellcome</h1><button>Sign up</button></body></html>`))
	}))
	defer page.Close()

	mock := provider.NewMockProvider(provider.MockResponse{
		Text: `[{"key": "heading.1", "original": "Wellcome", "suggested": "Welcome", "reason": "Typo", "type": "spelling", "section": "heading", "severity": "medium"}]`,
	})
	engine := lingo.NewEngine(mock, lingo.WithPageReader(website.NewReader(page.Client())))

	got, err := engine.AdviseWebsite(context.Background(), page.URL, lingo.AdviseOptions{})
	if err != nil {
		t.Fatalf("AdviseWebsite failed: %v", err)
	}

	if len(got) != 1 || got[0].Key != "heading.1" {
		t.Errorf("Unexpected suggestions: %+v", got)
	}
	prompt := mock.Requests[0].Prompt
	if !strings.Contains(prompt, `"button.1": "Sign up"`) {
		t.Errorf("Expected extracted labels in prompt, got: %s", prompt)
	}
}

func TestIntegration_RetryThenSucceed(t *testing.T) {
	mock := provider.NewMockProvider(
		provider.MockResponse{Err: errors.New("Resource exhausted")},
		provider.MockResponse{Text: `{"a": "Hola"}`},
	)
	engine := lingo.NewEngine(mock, lingo.WithRetryConfig(lingo.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}))

	got, err := engine.Translate(context.Background(), lingo.NewMessageMap(lingo.Entry{Key: "a", Value: "Hello"}), lingo.TranslateOptions{TargetLang: "es"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if v, _ := got.Get("a"); v != "Hola" {
		t.Errorf("Expected Hola, got %q", v)
	}
	if mock.CallCount != 2 {
		t.Errorf("Expected 2 calls, got %d", mock.CallCount)
	}
}

func TestIntegration_Live(t *testing.T) {
	tests := []struct {
		name provider.Name
		env  string
	}{
		{provider.NameGemini, "GEMINI_API_KEY"},
		{provider.NameOpenAI, "OPENAI_API_KEY"},
		{provider.NameAnthropic, "ANTHROPIC_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			target := liveTarget(t, tt.name, tt.env)
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			messages := lingo.NewMessageMap(
				lingo.Entry{Key: "greeting", Value: "Hello, {name}!"},
				lingo.Entry{Key: "farewell", Value: "Goodbye"},
			)
			got, err := provider.Translate(ctx, target, messages, lingo.TranslateOptions{TargetLang: "es"})
			if err != nil {
				t.Fatalf("Translate failed: %v", err)
			}

			if got.Len() != 2 {
				t.Errorf("Expected 2 messages, got %v", got.Entries())
			}
			if v, _ := got.Get("greeting"); !strings.Contains(v, "{name}") {
				t.Errorf("Placeholder lost: %q", v)
			}
			if !provider.VerifyAPIKey(ctx, tt.name, target.APIKey) {
				t.Error("Expected the key to verify")
			}
		})
	}
}
