package lingo

import (
	"encoding/json"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Schema names sent to providers with structured output.
const (
	translationSchemaName = "translations"
	suggestionSchemaName  = "suggestions"
)

// translationPayload is the structured-output shape for translations. Strict
// schemas need a fixed object at the root, so pairs are listed explicitly.
type translationPayload struct {
	Translations []Entry `json:"translations"`
}

type suggestionPayload struct {
	Suggestions []json.RawMessage `json:"suggestions"`
}

// TranslationSchema describes the structured translation output.
func TranslationSchema() *Schema {
	return &Schema{
		Name: translationSchemaName,
		Definition: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"translations": {
					Type: jsonschema.Array,
					Items: &jsonschema.Definition{
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"key":   {Type: jsonschema.String, Description: "Message key, unchanged"},
							"value": {Type: jsonschema.String, Description: "Translated text"},
						},
						Required:             []string{"key", "value"},
						AdditionalProperties: false,
					},
				},
			},
			Required:             []string{"translations"},
			AdditionalProperties: false,
		},
	}
}

// SuggestionSchema describes the structured suggestion output. Website
// suggestions also carry section and severity.
func SuggestionSchema(errorTypes []ErrorType, website bool) *Schema {
	types := knownErrorTypes(errorTypes)
	enum := make([]string, len(types))
	for i, t := range types {
		enum[i] = string(t)
	}

	props := map[string]jsonschema.Definition{
		"key":       {Type: jsonschema.String},
		"original":  {Type: jsonschema.String},
		"suggested": {Type: jsonschema.String},
		"reason":    {Type: jsonschema.String},
		"type":      {Type: jsonschema.String, Enum: enum},
	}
	required := []string{"key", "original", "suggested", "reason", "type"}

	if website {
		props["section"] = jsonschema.Definition{Type: jsonschema.String, Enum: ElementCategories}
		props["severity"] = jsonschema.Definition{
			Type: jsonschema.String,
			Enum: []string{string(SeverityVeryLow), string(SeverityLow), string(SeverityMedium), string(SeverityHigh)},
		}
		required = append(required, "section", "severity")
	}

	return &Schema{
		Name: suggestionSchemaName,
		Definition: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"suggestions": {
					Type: jsonschema.Array,
					Items: &jsonschema.Definition{
						Type:                 jsonschema.Object,
						Properties:           props,
						Required:             required,
						AdditionalProperties: false,
					},
				},
			},
			Required:             []string{"suggestions"},
			AdditionalProperties: false,
		},
	}
}

// reconcileTranslation merges the model output for batch into out. Only keys
// of the batch are accepted and every batch key ends up in out: keys the model
// skipped keep their source text. It reports whether the output was usable.
func reconcileTranslation(batch []Entry, resp *Response, structured bool, out *MessageMap) bool {
	translated, parsed := decodeTranslation(resp, structured)

	for _, e := range batch {
		if v, ok := translated[e.Key]; ok {
			out.Set(e.Key, v)
		} else {
			out.Set(e.Key, e.Value)
		}
	}
	return parsed
}

func decodeTranslation(resp *Response, structured bool) (map[string]string, bool) {
	if resp == nil {
		return nil, false
	}

	if structured {
		if len(resp.Structured) == 0 {
			return nil, false
		}
		var payload translationPayload
		if err := json.Unmarshal(resp.Structured, &payload); err != nil {
			return nil, false
		}
		translated := make(map[string]string, len(payload.Translations))
		for _, e := range payload.Translations {
			translated[e.Key] = e.Value
		}
		return translated, len(translated) > 0
	}

	raw, ok := ExtractJSON(resp.Text, '{')
	if !ok {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, false
	}
	translated := make(map[string]string, len(obj))
	for k, v := range obj {
		// Non-string values are discarded
		if s, ok := v.(string); ok {
			translated[k] = s
		}
	}
	return translated, true
}

// reconcileSuggestions decodes the suggestions in resp. Elements that do not
// decode are skipped; an unusable response yields none.
func reconcileSuggestions(resp *Response, structured bool) ([]Suggestion, bool) {
	if resp == nil {
		return nil, false
	}

	var elements []json.RawMessage
	if structured {
		if len(resp.Structured) == 0 {
			return nil, false
		}
		var payload suggestionPayload
		if err := json.Unmarshal(resp.Structured, &payload); err != nil {
			return nil, false
		}
		elements = payload.Suggestions
	} else {
		raw, ok := ExtractJSON(resp.Text, '[')
		if !ok {
			return nil, false
		}
		if err := json.Unmarshal([]byte(raw), &elements); err != nil {
			return nil, false
		}
	}

	suggestions := make([]Suggestion, 0, len(elements))
	for _, el := range elements {
		if s, ok := decodeSuggestion(el); ok {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions, true
}

// decodeSuggestion decodes one suggestion object and normalises its enums.
func decodeSuggestion(raw json.RawMessage) (Suggestion, bool) {
	var s Suggestion
	if err := json.Unmarshal(raw, &s); err != nil {
		return Suggestion{}, false
	}
	if s.Key == "" && s.Original == "" {
		return Suggestion{}, false
	}
	s.Type = ErrorType(strings.ToLower(strings.TrimSpace(string(s.Type))))
	s.Severity = Severity(strings.ToLower(strings.TrimSpace(string(s.Severity))))
	return s, true
}
