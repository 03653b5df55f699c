package lingo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// productContextHeading marks the optional free-text context block.
const productContextHeading = "# Product context"

// BuildSystemPrompt renders the translation instructions for a run.
func BuildSystemPrompt(targetLang, context string) string {
	targetName := GetLanguageName(targetLang)

	var b strings.Builder
	fmt.Fprintf(&b, `# Role
You are an expert software localizer. You translate user interface messages into %s with the fluency of a native speaker.

# Rules
- **Placeholders**: Keep every placeholder exactly as written, e.g. {name}, {count}, {{variable}}. Never translate, rename or drop them.
- **ICU syntax**: Inside plural or select expressions translate only the human-readable text, never the keywords.
- **Markup**: Preserve HTML tags, attributes and markdown structure. Translate only the text between them.
- **Tone**: Keep the tone and register of the source. Use the conventions a native %s speaker expects in software.
- **Scope**: Translate only. Do not add, remove, explain or summarize content.
- **Keys**: Message keys are identifiers. Never translate or change them.`, targetName, targetName)

	if IsRTL(targetLang) {
		b.WriteString("\n- **Direction**: The target language is written right-to-left. Keep placeholders and markup in their logical position.")
	}

	if context != "" {
		fmt.Fprintf(&b, "\n\n%s\nUse this description of the product to choose the right terminology:\n%s", productContextHeading, context)
	}

	return b.String()
}

// BuildTranslationPrompt combines the system prompt with one batch.
func BuildTranslationPrompt(systemPrompt string, batch []Entry) string {
	return systemPrompt + `

# Task
Translate the value of every entry in the JSON object below.

# Format
Return a single JSON object with exactly the same keys and the translated strings as values.
- Do NOT wrap the JSON in Markdown code blocks.
- Do NOT add commentary before or after the JSON.

# Messages
` + serializeBatch(batch)
}

// BuildRevisionSystemPrompt renders the proofreading instructions for the
// selected error categories.
func BuildRevisionSystemPrompt(errorTypes []ErrorType, context string) string {
	types := knownErrorTypes(errorTypes)

	var b strings.Builder
	b.WriteString(`# Role
You are a meticulous proofreader for software user interface messages.

# Task
Review each message and report only genuine issues in these categories:
`)
	writeErrorTypes(&b, types)

	b.WriteString(`
# Rules
- Placeholders such as {name}, {count} and {{variable}}, HTML tags and markdown are intentional. Never report them.
- Skip messages without issues. Do not report stylistic preferences.
- "suggested" must be the complete corrected message, not a fragment.`)

	if context != "" {
		fmt.Fprintf(&b, "\n\n%s\nUse this description of the product when judging wording and tone:\n%s", productContextHeading, context)
	}

	b.WriteString("\n\n")
	writeSuggestionFormat(&b, types, false)

	return b.String()
}

// BuildRevisionPrompt combines the revision system prompt with one batch.
func BuildRevisionPrompt(systemPrompt string, batch []Entry) string {
	return systemPrompt + "\n\n# Messages\n" + serializeBatch(batch)
}

// BuildAdviseWebsitePrompt asks the model to open websiteURL itself and report
// issues in the page text. The provider must offer a URL-fetch tool.
func BuildAdviseWebsitePrompt(errorTypes []ErrorType, websiteURL string) string {
	types := knownErrorTypes(errorTypes)

	var b strings.Builder
	fmt.Fprintf(&b, `# Role
You are a copy editor reviewing the visible text of a public website.

# Task
Visit %s and read the text a visitor sees. Report only genuine issues in these categories:
`, websiteURL)
	writeErrorTypes(&b, types)
	b.WriteString("\n")
	writeElementScope(&b)
	b.WriteString("\n")
	writeSuggestionFormat(&b, types, true)

	return b.String()
}

// BuildAdviseLabelsSystemPrompt renders the instructions used when the page
// text was extracted beforehand and is supplied in batches.
func BuildAdviseLabelsSystemPrompt(errorTypes []ErrorType, websiteURL string) string {
	types := knownErrorTypes(errorTypes)

	var b strings.Builder
	fmt.Fprintf(&b, `# Role
You are a copy editor reviewing the visible text of a public website.

# Task
The labels below were extracted from %s. Each key is "<element>.<number>". Report only genuine issues in these categories:
`, websiteURL)
	writeErrorTypes(&b, types)
	b.WriteString("\n")
	writeElementScope(&b)
	b.WriteString("\n")
	writeSuggestionFormat(&b, types, true)

	return b.String()
}

// BuildAdviseLabelsPrompt combines the label system prompt with one batch.
func BuildAdviseLabelsPrompt(systemPrompt string, batch []Entry) string {
	return systemPrompt + "\n\n# Labels\n" + serializeBatch(batch)
}

func writeErrorTypes(b *strings.Builder, types []ErrorType) {
	for _, t := range types {
		info, _ := t.Info()
		fmt.Fprintf(b, "- %s (%s): %s\n", t, info.Label, info.Description)
	}
}

func writeElementScope(b *strings.Builder) {
	b.WriteString("# Scope\nOnly consider these elements: ")
	labels := make([]string, len(ElementCategories))
	for i, c := range ElementCategories {
		labels[i] = elementCategoryLabels[c]
	}
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString(".\nIgnore code samples, legal boilerplate, user-generated content and brand names.\n")
}

func writeSuggestionFormat(b *strings.Builder, types []ErrorType, website bool) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = `"` + string(t) + `"`
	}

	b.WriteString("# Format\nReturn a JSON array. Each element is an object with:\n")
	if website {
		b.WriteString(`- "key": the element key, or a short CSS-like locator of the element
`)
	} else {
		b.WriteString(`- "key": the message key
`)
	}
	fmt.Fprintf(b, `- "original": the text as it is now
- "suggested": the corrected text
- "reason": one sentence explaining the issue
- "type": one of %s
`, strings.Join(names, ", "))
	if website {
		fmt.Fprintf(b, `- "section": one of %s
- "severity": one of "very low", "low", "medium", "high"
`, quoteAll(ElementCategories))
	}
	b.WriteString("Return [] when there are no issues. Do NOT wrap the JSON in Markdown code blocks.")
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}

// serializeBatch renders entries as an indented JSON object in batch order.
func serializeBatch(batch []Entry) string {
	raw, err := NewMessageMap(batch...).MarshalJSON()
	if err != nil {
		return "{}"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
