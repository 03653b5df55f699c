package lingo

import (
	"fmt"
	"strings"
)

// ErrorType is a proofreading category.
type ErrorType string

const (
	ErrorGrammar       ErrorType = "grammar"
	ErrorSpelling      ErrorType = "spelling"
	ErrorPunctuation   ErrorType = "punctuation"
	ErrorWording       ErrorType = "wording"
	ErrorPhrasing      ErrorType = "phrasing"
	ErrorConsistency   ErrorType = "consistency"
	ErrorTone          ErrorType = "tone"
	ErrorClarity       ErrorType = "clarity"
	ErrorAccessibility ErrorType = "accessibility"
)

// ErrorTypeInfo is the label and prompt description for an ErrorType.
type ErrorTypeInfo struct {
	Label       string
	Description string
}

var errorTypeInfo = map[ErrorType]ErrorTypeInfo{
	ErrorGrammar:       {"Grammar", "Incorrect verb tense, agreement, articles, prepositions or sentence structure."},
	ErrorSpelling:      {"Spelling", "Misspelled words, typos and wrong capitalization."},
	ErrorPunctuation:   {"Punctuation", "Missing, extra or incorrect punctuation, including spacing around it."},
	ErrorWording:       {"Wording", "Word choices that are imprecise, unidiomatic or wrong for the context."},
	ErrorPhrasing:      {"Phrasing", "Awkward, unnatural or overly literal sentences that a native speaker would not write."},
	ErrorConsistency:   {"Consistency", "The same concept named differently across messages, or inconsistent capitalization and style."},
	ErrorTone:          {"Tone", "Text whose register does not match the rest of the product (too formal, too casual, rude)."},
	ErrorClarity:       {"Clarity", "Text that is ambiguous or hard to understand for a first-time visitor."},
	ErrorAccessibility: {"Accessibility", "Missing or unhelpful alternative text, vague link text such as \"click here\", unlabeled controls."},
}

// RevisionErrorTypes are the categories available when proofreading messages.
var RevisionErrorTypes = []ErrorType{
	ErrorGrammar,
	ErrorSpelling,
	ErrorPunctuation,
	ErrorWording,
	ErrorPhrasing,
	ErrorConsistency,
	ErrorTone,
}

// WebsiteErrorTypes are the categories available when advising on a website.
var WebsiteErrorTypes = []ErrorType{
	ErrorGrammar,
	ErrorSpelling,
	ErrorPunctuation,
	ErrorWording,
	ErrorPhrasing,
	ErrorConsistency,
	ErrorClarity,
	ErrorAccessibility,
}

// Info returns the label and description for t.
func (t ErrorType) Info() (ErrorTypeInfo, bool) {
	info, ok := errorTypeInfo[t]
	return info, ok
}

// Valid reports whether t is a known category.
func (t ErrorType) Valid() bool {
	_, ok := errorTypeInfo[t]
	return ok
}

// ParseErrorTypes parses category names, rejecting any not in allowed.
// An empty input selects every allowed category.
func ParseErrorTypes(names []string, allowed []ErrorType) ([]ErrorType, error) {
	if len(names) == 0 {
		out := make([]ErrorType, len(allowed))
		copy(out, allowed)
		return out, nil
	}

	set := make(map[ErrorType]bool, len(allowed))
	for _, t := range allowed {
		set[t] = true
	}

	out := make([]ErrorType, 0, len(names))
	seen := make(map[ErrorType]bool)
	for _, name := range names {
		t := ErrorType(strings.ToLower(strings.TrimSpace(name)))
		if !set[t] {
			return nil, &ConfigError{Field: "errorTypes", Message: fmt.Sprintf("unknown error type %q", name)}
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}

// knownErrorTypes drops categories without prompt descriptions.
func knownErrorTypes(types []ErrorType) []ErrorType {
	out := make([]ErrorType, 0, len(types))
	for _, t := range types {
		if t.Valid() {
			out = append(out, t)
		}
	}
	return out
}

// ElementCategories are the page elements website advice may cover.
var ElementCategories = []string{
	"title",
	"meta",
	"heading",
	"navigation",
	"button",
	"link",
	"label",
	"placeholder",
	"alt",
	"paragraph",
}

var elementCategoryLabels = map[string]string{
	"title":       "page title",
	"meta":        "meta description",
	"heading":     "headings",
	"navigation":  "navigation items",
	"button":      "buttons",
	"link":        "link text",
	"label":       "form labels",
	"placeholder": "input placeholders",
	"alt":         "image alternative text",
	"paragraph":   "body paragraphs",
}
