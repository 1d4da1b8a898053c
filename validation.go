package playground

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/guiperry/playground/llm"
)

// Validate checks v against its `validate` struct tags.
//
// Example usage:
//
//	req := NewGenerateRequest("", "article")
//	if err := Validate(req); err != nil {
//	    // Brief is required
//	}
func Validate(v any) error {
	if err := llm.Validate(v); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// GenerateJSONSchema reflects a JSON schema for v from its json and
// jsonschema struct tags.
func GenerateJSONSchema(v any) ([]byte, error) {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	schema, err := json.MarshalIndent(r.Reflect(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON schema: %w", err)
	}
	return schema, nil
}

// RequestSchema returns the JSON schema of the /v1/unified request body.
func RequestSchema() ([]byte, error) {
	return GenerateJSONSchema(&UnifiedRequest{})
}
