package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookforge/internal/retry"
	"bookforge/internal/validate"
)

// Chain tries providers strictly in order until one returns output the
// validator accepts. Each provider call is wrapped in the retry/backoff
// controller; validator rejections advance the chain without retry-in-place.
// Providers are never invoked in parallel.
type Chain struct {
	providers []Provider
	validator validate.Validator
	policy    retry.Policy
}

// ChainConfig configures a Chain. All knobs are explicit so tests can run
// the chain deterministically against mock providers.
type ChainConfig struct {
	Retry     retry.Policy
	Validator validate.Validator
}

// NewChain creates a fallback chain. Providers are tried in argument order;
// the first is primary. A StaticProvider as the final entry guarantees the
// chain always terminates with some result.
func NewChain(cfg ChainConfig, providers ...Provider) *Chain {
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	return &Chain{
		providers: providers,
		validator: cfg.Validator,
		policy:    cfg.Retry,
	}
}

// Result is the outcome of a chain execution. Text is only set when the
// validator accepted it; there is no partial success.
type Result struct {
	Text     string
	Provider string
	Attempts []Attempt
}

// AllFailedError is returned when every provider in the chain failed. It
// carries the complete attempt history for diagnostics.
type AllFailedError struct {
	Attempts []Attempt
}

func (e *AllFailedError) Error() string {
	providers := make(map[string]bool)
	for _, a := range e.Attempts {
		providers[a.Provider] = true
	}
	return fmt.Sprintf("all %d providers failed after %d attempts", len(providers), len(e.Attempts))
}

// Execute runs the request through the chain. On success the returned Result
// carries the validated text, the producing provider, and the full attempt
// history including failed attempts from earlier providers.
func (c *Chain) Execute(ctx context.Context, req *Request) (*Result, error) {
	if len(c.providers) == 0 {
		return nil, &AllFailedError{}
	}

	var attempts []Attempt

	for _, p := range c.providers {
		var resp *Response
		n := 0

		err := retry.Execute(ctx, c.policy, IsTransient, func(ctx context.Context) error {
			n++
			start := time.Now()
			r, callErr := p.Generate(ctx, req)
			elapsed := time.Since(start)

			if callErr == nil {
				if vErr := c.validator.Validate(r.Text); vErr != nil {
					attempts = append(attempts, Attempt{
						Provider: p.Name(),
						Attempt:  n,
						Outcome:  OutcomeRejected,
						Elapsed:  elapsed,
						Err:      vErr.Error(),
					})
					// Rejection is not transient: advance to the next
					// provider rather than retrying in place.
					return vErr
				}
				resp = r
				attempts = append(attempts, Attempt{
					Provider: p.Name(),
					Attempt:  n,
					Outcome:  OutcomeSuccess,
					Elapsed:  elapsed,
				})
				return nil
			}

			attempts = append(attempts, Attempt{
				Provider: p.Name(),
				Attempt:  n,
				Outcome:  outcomeFor(callErr),
				Elapsed:  elapsed,
				Err:      callErr.Error(),
			})
			return callErr
		})

		if err == nil {
			return &Result{
				Text:     resp.Text,
				Provider: resp.Provider,
				Attempts: attempts,
			}, nil
		}
		if ctx.Err() != nil {
			// Caller abandoned the request; report what happened so far.
			return nil, &AllFailedError{Attempts: attempts}
		}
		log.Printf("[fallback] request %s: provider %s failed (%v), trying next", req.ID, p.Name(), err)
	}

	return nil, &AllFailedError{Attempts: attempts}
}

func outcomeFor(err error) Outcome {
	switch TypeOf(err) {
	case ErrorTimeout:
		return OutcomeTimeout
	case ErrorRateLimit:
		return OutcomeRateLimited
	default:
		return OutcomeError
	}
}
