// Package llm decodes the playground's server-sent event stream into
// reasoning, generated text and a structured result, and tracks the phase of
// each session.
package llm

// Buffer and streaming constants
const (
	DefaultStreamBufferSize = 4096     // Read chunk size when none is configured
	MaxErrorBodySize        = 64 << 10 // Bytes of a non-success response read for its message
)
