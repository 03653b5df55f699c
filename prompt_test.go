package lingo

import (
	"strings"
	"testing"
)

func TestBuildSystemPrompt_Language(t *testing.T) {
	prompt := BuildSystemPrompt("fr", "")
	if !strings.Contains(prompt, "French") {
		t.Error("Prompt should contain the resolved language name")
	}

	prompt = BuildSystemPrompt("unknown-lang", "")
	if !strings.Contains(prompt, "unknown-lang") {
		t.Error("Prompt should contain an unknown code verbatim")
	}
}

func TestBuildSystemPrompt_Context(t *testing.T) {
	prompt := BuildSystemPrompt("de", "A budgeting app for freelancers")

	if !strings.Contains(prompt, "Product context") {
		t.Error("Prompt should contain the context marker")
	}
	if !strings.Contains(prompt, "A budgeting app for freelancers") {
		t.Error("Prompt should contain the context text")
	}

	prompt = BuildSystemPrompt("de", "")
	if strings.Contains(prompt, "Product context") {
		t.Error("Prompt must not contain the context marker when context is empty")
	}
}

func TestBuildSystemPrompt_Guidance(t *testing.T) {
	prompt := BuildSystemPrompt("ja", "")

	for _, want := range []string{"{name}", "{count}", "{{variable}}", "HTML", "markdown", "Translate only"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt should mention %q", want)
		}
	}

	if strings.Contains(prompt, "right-to-left") {
		t.Error("Japanese prompt should not carry RTL guidance")
	}
	if !strings.Contains(BuildSystemPrompt("ar", ""), "right-to-left") {
		t.Error("Arabic prompt should carry RTL guidance")
	}
}

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	a := BuildSystemPrompt("es", "shop")
	b := BuildSystemPrompt("es", "shop")
	if a != b {
		t.Error("Prompt building should be deterministic")
	}
}

func TestBuildTranslationPrompt(t *testing.T) {
	system := BuildSystemPrompt("es", "")
	batch := []Entry{
		{Key: "b.title", Value: "Hello {name}"},
		{Key: "a.body", Value: "Welcome"},
	}

	prompt := BuildTranslationPrompt(system, batch)

	if !strings.HasPrefix(prompt, system) {
		t.Error("Batch prompt should start with the system prompt")
	}

	// Keys keep batch order, not alphabetical order
	first := strings.Index(prompt, `"b.title": "Hello {name}"`)
	second := strings.Index(prompt, `"a.body": "Welcome"`)
	if first < 0 || second < 0 {
		t.Fatalf("Prompt should contain serialized entries, got:\n%s", prompt)
	}
	if first > second {
		t.Error("Entries should be serialized in batch order")
	}
}

func TestBuildRevisionSystemPrompt(t *testing.T) {
	prompt := BuildRevisionSystemPrompt([]ErrorType{ErrorGrammar, ErrorTone}, "")

	if !strings.Contains(prompt, "Grammar") || !strings.Contains(prompt, "Tone") {
		t.Error("Prompt should contain selected error type labels")
	}
	if strings.Contains(prompt, "Spelling") {
		t.Error("Prompt should not contain unselected error types")
	}
	if strings.Contains(prompt, "Product context") {
		t.Error("Prompt must not contain the context marker when context is empty")
	}

	withCtx := BuildRevisionSystemPrompt([]ErrorType{ErrorGrammar}, "Banking")
	if !strings.Contains(withCtx, "Product context") || !strings.Contains(withCtx, "Banking") {
		t.Error("Prompt should contain the context block")
	}
}

func TestBuildRevisionSystemPrompt_IgnoresUnknownTypes(t *testing.T) {
	prompt := BuildRevisionSystemPrompt([]ErrorType{"made-up", ErrorSpelling}, "")
	if strings.Contains(prompt, "made-up") {
		t.Error("Unknown error types should be ignored")
	}
	if !strings.Contains(prompt, "Spelling") {
		t.Error("Known error types should be kept")
	}
}

func TestBuildAdviseWebsitePrompt(t *testing.T) {
	prompt := BuildAdviseWebsitePrompt([]ErrorType{ErrorSpelling}, "https://example.com")

	if !strings.Contains(prompt, "Visit https://example.com") {
		t.Error("Prompt should ask the model to visit the URL")
	}
	if !strings.Contains(prompt, "severity") || !strings.Contains(prompt, "section") {
		t.Error("Website prompt should ask for section and severity")
	}
	if !strings.Contains(prompt, "image alternative text") {
		t.Error("Website prompt should list element categories")
	}
}

func TestBuildAdviseLabelsPrompt(t *testing.T) {
	system := BuildAdviseLabelsSystemPrompt(WebsiteErrorTypes, "https://example.com")
	prompt := BuildAdviseLabelsPrompt(system, []Entry{{Key: "heading.1", Value: "Wellcome"}})

	if strings.Contains(prompt, "Visit ") {
		t.Error("Label prompt should not ask the model to visit the URL")
	}
	if !strings.Contains(prompt, `"heading.1": "Wellcome"`) {
		t.Error("Label prompt should contain the batch")
	}
}
