package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrCanceled is the cancellation cause set by Controller.Cancel. A session
// ending with this cause finished quietly rather than failing.
var ErrCanceled = errors.New("stream canceled")

// ErrorType represents the type of an error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeRequest
	ErrorTypeStatus
	ErrorTypeNoStream
	ErrorTypeTransport
	ErrorTypeRateLimit
)

// StreamError is a failure that ended a session.
type StreamError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Err        error
}

func (e *StreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.TypeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.TypeString(), e.Message)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

func (e *StreamError) TypeString() string {
	switch e.Type {
	case ErrorTypeRequest:
		return "RequestError"
	case ErrorTypeStatus:
		return "StatusError"
	case ErrorTypeNoStream:
		return "NoStreamError"
	case ErrorTypeTransport:
		return "TransportError"
	case ErrorTypeRateLimit:
		return "RateLimitError"
	default:
		return "UnknownError"
	}
}

// UserMessage is the text shown to the user in State.Error.
func (e *StreamError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return genericErrorMessage
}

// LoggableFields returns key/value pairs for a Logger call.
func (e *StreamError) LoggableFields() []any {
	return []any{
		"error_type", e.TypeString(),
		"message", e.Message,
		"status", e.StatusCode,
		"error", e.Err,
	}
}

func NewStreamError(errType ErrorType, message string, err error) *StreamError {
	return &StreamError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

const genericErrorMessage = "Something went wrong"

// errorFields are probed in order on a non-success response body.
var errorFields = []string{"detail.message", "detail", "message", "error.message", "error"}

// statusErrorMessage builds a readable message for a non-success response.
// body is nil when it could not be read. A body that is not JSON falls back
// to the status text; JSON without a known field falls back to the code.
func statusErrorMessage(statusCode int, status string, body []byte) string {
	if body != nil && gjson.ValidBytes(body) {
		for _, path := range errorFields {
			r := gjson.GetBytes(body, path)
			if r.Type == gjson.String && r.Str != "" {
				return r.Str
			}
		}
		return fmt.Sprintf("API error: %d", statusCode)
	}

	if text := statusText(statusCode, status); text != "" {
		return text
	}
	return fmt.Sprintf("API error: %d", statusCode)
}

// statusText prefers the reason phrase the server sent over the canonical one.
func statusText(statusCode int, status string) string {
	if _, reason, ok := strings.Cut(status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(statusCode)
}
