package llm

import (
	"context"
	"errors"
)

// Provider is the interface all text-generation backends must implement.
// Implementations must produce text synchronously with no interactive
// approval step; tools that prompt for confirmation cannot be registered.
type Provider interface {
	// Generate sends a prompt and returns the full response.
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g. "claude-cli", "openai").
	Name() string
}

// ErrorType classifies provider errors for retry and fallback decisions.
type ErrorType int

const (
	ErrorUnknown      ErrorType = iota
	ErrorRateLimit              // provider throttling; transient
	ErrorTimeout                // deadline exceeded; transient
	ErrorProcess                // non-zero exit / HTTP 5xx; not retried in place
	ErrorAuth                   // 401/403
	ErrorInvalidInput           // malformed payload
	ErrorNetwork                // connection refused, DNS
)

func (t ErrorType) String() string {
	switch t {
	case ErrorRateLimit:
		return "rate_limited"
	case ErrorTimeout:
		return "timeout"
	case ErrorProcess:
		return "process_error"
	case ErrorAuth:
		return "auth"
	case ErrorInvalidInput:
		return "invalid_input"
	case ErrorNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// ProviderError wraps an error with a classification for retry/fallback logic.
type ProviderError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// TypeOf extracts the classification from err, ErrorUnknown if unclassified.
func TypeOf(err error) ErrorType {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ErrorUnknown
}

// IsTransient reports whether err is expected to resolve itself after
// waiting. Only these errors are retried in place by the backoff controller.
func IsTransient(err error) bool {
	switch TypeOf(err) {
	case ErrorRateLimit, ErrorTimeout:
		return true
	default:
		return false
	}
}
