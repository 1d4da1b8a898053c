package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const fence = "```"

// ErrNotStructured is returned by Materialize when the text parses as JSON
// but is neither an object nor an array.
var ErrNotStructured = errors.New("generated text is not a JSON object or array")

// Materialized is the outcome of parsing the generation buffer.
type Materialized struct {
	// Text is the buffer with surrounding whitespace and fences removed.
	Text string
	// Value is the decoded object (map[string]any) or array ([]any).
	Value any
	// JSON is Text as raw JSON, set only when Value is.
	JSON json.RawMessage
}

// StripFences removes one leading fence line (with or without a language tag
// such as ```json) and one trailing fence, plus the whitespace around them.
// Token streams often lose the newline after the opening fence. A tag glued to
// its content is dropped only when JSON follows it; otherwise only the
// backticks go, so glued prose keeps its first word.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, fence); ok {
		tag := len(rest) - len(strings.TrimLeftFunc(rest, isTagRune))
		after := strings.TrimLeft(rest[tag:], " \t")
		switch {
		case after == "", strings.ContainsRune("\r\n{[", rune(after[0])):
			text = after
		default:
			text = rest
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

// Materialize strips fences from accumulated and decodes what remains. On
// error the returned Materialized still carries the unfenced Text.
func Materialize(accumulated string) (Materialized, error) {
	m := Materialized{Text: StripFences(accumulated)}
	if m.Text == "" {
		return m, fmt.Errorf("parse result: %w", ErrNotStructured)
	}

	var v any
	if err := json.Unmarshal([]byte(m.Text), &v); err != nil {
		return m, fmt.Errorf("parse result: %w", err)
	}
	switch v.(type) {
	case map[string]any, []any:
	default:
		return m, fmt.Errorf("parse result: %w", ErrNotStructured)
	}

	m.Value = v
	m.JSON = json.RawMessage(m.Text)
	return m, nil
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '+' || r == '_'
}
