package lingo

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the first top-level JSON value starting with open ('{'
// or '[') in text, matched to its structurally correct closing bracket.
// Brackets inside string literals are ignored. It returns false when no
// opening bracket exists or the value is never closed.
func ExtractJSON(text string, open byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// scanState is the position of the StreamParser within the model output.
type scanState int

const (
	stateOutside scanState = iota // before the top-level array
	stateArray                    // inside the top-level array, between elements
	stateObject                   // inside an element object, depth >= 1
	stateSkip                     // inside a non-object element, depth >= 1
	stateString                   // inside a string literal
	stateEscaped                  // right after a backslash in a string literal
)

// StreamParser incrementally extracts the objects of a top-level JSON array
// from text that arrives in arbitrary chunks. Each object is emitted as soon
// as its closing brace is seen; objects that are not valid JSON and elements
// that are not objects are dropped.
type StreamParser struct {
	state  scanState
	resume scanState // state to return to when a string literal closes
	depth  int
	buf    strings.Builder
}

// NewStreamParser creates a parser waiting for the opening '['.
func NewStreamParser() *StreamParser {
	return &StreamParser{}
}

// Feed consumes chunk and returns the objects completed within it, in order.
func (p *StreamParser) Feed(chunk string) []json.RawMessage {
	var out []json.RawMessage

	for i := 0; i < len(chunk); i++ {
		c := chunk[i]

		switch p.state {
		case stateOutside:
			if c == '[' {
				p.state = stateArray
			}

		case stateArray:
			switch c {
			case '{':
				p.buf.Reset()
				p.buf.WriteByte(c)
				p.depth = 1
				p.state = stateObject
			case '[':
				p.depth = 1
				p.state = stateSkip
			case '"':
				p.resume = stateArray
				p.state = stateString
			case ']':
				p.state = stateOutside
			}

		case stateSkip:
			switch c {
			case '"':
				p.resume = stateSkip
				p.state = stateString
			case '{', '[':
				p.depth++
			case '}', ']':
				p.depth--
				if p.depth == 0 {
					p.state = stateArray
				}
			}

		case stateObject:
			p.buf.WriteByte(c)
			switch c {
			case '"':
				p.resume = stateObject
				p.state = stateString
			case '{', '[':
				p.depth++
			case '}', ']':
				p.depth--
				if p.depth == 0 {
					if obj := p.buf.String(); json.Valid([]byte(obj)) {
						out = append(out, json.RawMessage(obj))
					}
					p.buf.Reset()
					p.state = stateArray
				}
			}

		case stateString:
			if p.resume == stateObject {
				p.buf.WriteByte(c)
			}
			switch c {
			case '\\':
				p.state = stateEscaped
			case '"':
				p.state = p.resume
			}

		case stateEscaped:
			if p.resume == stateObject {
				p.buf.WriteByte(c)
			}
			p.state = stateString
		}
	}

	return out
}

// Pending reports whether a partially received object is buffered.
func (p *StreamParser) Pending() bool {
	return p.buf.Len() > 0
}

// Reset discards any partial object and waits for a new '['.
func (p *StreamParser) Reset() {
	p.state = stateOutside
	p.resume = stateOutside
	p.depth = 0
	p.buf.Reset()
}
