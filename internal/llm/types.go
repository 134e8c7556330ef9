package llm

import (
	"time"

	"github.com/google/uuid"
)

// Request is the input for one generation call. It is immutable once created.
type Request struct {
	// ID correlates log lines and attempt records for one request.
	ID string

	// Prompt is the full text payload sent to the provider.
	Prompt string

	// MaxTokens caps the response length where the backend supports it.
	MaxTokens int

	// Temperature is passed through where the backend supports it.
	Temperature float64

	// Timeout bounds a single provider call. Zero means the provider's
	// configured default.
	Timeout time.Duration
}

// NewRequest creates a Request with a fresh correlation id.
func NewRequest(prompt string) *Request {
	return &Request{
		ID:     uuid.NewString(),
		Prompt: prompt,
	}
}

// Response is a successful result from a provider.
type Response struct {
	Text     string
	Provider string
	Elapsed  time.Duration
}

// Outcome is the recorded result of one provider attempt.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeError       Outcome = "error"
	OutcomeRejected    Outcome = "rejected" // validator refused the output
)

// Attempt records one provider call for diagnostics. It has no lifecycle
// beyond the request it belongs to.
type Attempt struct {
	Provider string
	Attempt  int // 1-based, per provider
	Outcome  Outcome
	Elapsed  time.Duration
	Err      string
}
