package playground

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guiperry/playground/llm"
)

// ErrNoResult is returned when a session ended without a structured result.
var ErrNoResult = errors.New("no structured result")

// GeneratedContent is the result of a generate action.
type GeneratedContent struct {
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Sections        []Section `json:"sections,omitempty"`
	FAQ             []FAQItem `json:"faq,omitempty"`
	CTA             string    `json:"cta,omitempty"`
	FullHTML        string    `json:"full_html,omitempty"`
}

type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ImprovedContent is the result of an improve action.
type ImprovedContent struct {
	ImprovedContent string           `json:"improved_content"`
	Metadata        *ImproveMetadata `json:"metadata,omitempty"`
	Changes         []string         `json:"changes,omitempty"`
}

type ImproveMetadata struct {
	Task            string   `json:"task"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
}

// DecodeResult decodes the session's structured result into T.
func DecodeResult[T any](st llm.State) (T, error) {
	var out T
	if len(st.ResultJSON) == 0 {
		return out, ErrNoResult
	}
	if err := json.Unmarshal(st.ResultJSON, &out); err != nil {
		return out, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}
