package lingo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Batch sizes used by the orchestrator.
const (
	// DefaultBatchSize is the number of entries sent per model call.
	DefaultBatchSize = 100
	// LegacyBatchSize is the smaller batch used by single-provider setups with
	// tight output limits.
	LegacyBatchSize = 10
)

// Entry is a single message key and its text.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MessageMap is an insertion-ordered mapping of message keys to text.
// The zero value is ready to use.
type MessageMap struct {
	keys   []string
	values map[string]string
}

// NewMessageMap creates a MessageMap populated with the given entries in order.
func NewMessageMap(entries ...Entry) *MessageMap {
	m := &MessageMap{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (m *MessageMap) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key.
func (m *MessageMap) Get(key string) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *MessageMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, keeping the order of the remaining keys.
func (m *MessageMap) Delete(key string) {
	if m == nil || m.values == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *MessageMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *MessageMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Entries returns the entries in insertion order.
func (m *MessageMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry{Key: k, Value: m.values[k]}
	}
	return out
}

// Clone returns an independent copy.
func (m *MessageMap) Clone() *MessageMap {
	return NewMessageMap(m.Entries()...)
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m *MessageMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, e.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONString writes s as a JSON string without HTML escaping, so markup
// in messages stays readable in prompts and files.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON decodes a flat JSON object of strings, keeping the order in
// which keys appear in the document.
func (m *MessageMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("message map: expected JSON object")
	}
	*m = MessageMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("message map: expected string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("message map: value for %q: %w", key, err)
		}
		m.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// Severity ranks how much a suggestion matters.
type Severity string

const (
	SeverityVeryLow Severity = "very low"
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
)

// Rank returns the ordinal of the severity (very low = 1 .. high = 4), or 0
// when unset or unknown.
func (s Severity) Rank() int {
	switch s {
	case SeverityVeryLow:
		return 1
	case SeverityLow:
		return 2
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 4
	default:
		return 0
	}
}

// Suggestion is a single proofreading finding.
type Suggestion struct {
	Key       string    `json:"key"`
	Original  string    `json:"original"`
	Suggested string    `json:"suggested"`
	Reason    string    `json:"reason"`
	Type      ErrorType `json:"type"`
	Section   string    `json:"section,omitempty"`
	Severity  Severity  `json:"severity,omitempty"`
}

// ProgressFunc receives the cumulative number of processed entries and the
// total for the call.
type ProgressFunc func(current, total int)

// BatchReport describes how one batch was reconciled.
type BatchReport struct {
	Index  int  // Zero-based batch index
	Size   int  // Entries in the batch
	Parsed bool // False when the fallback policy was applied
}

// BatchObserver receives a report after every batch.
type BatchObserver func(BatchReport)
