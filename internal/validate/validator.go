// Package validate enforces the minimum-content contract on generated text.
// A provider result is only a success once it passes validation; empty or
// truncated output is treated the same as a failed call.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty means the text was empty or whitespace only.
	ErrEmpty = errors.New("output is empty")

	// ErrTooShort means the text did not meet the configured minimums.
	ErrTooShort = errors.New("output too short")
)

// Validator checks generated text against minimum length contracts.
type Validator struct {
	MinWords int
	MinChars int
}

// Default returns the validator used for chapter generation.
func Default() Validator {
	return Validator{MinWords: 50}
}

// Validate returns nil if text meets the configured minimums.
func (v Validator) Validate(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmpty
	}
	if v.MinChars > 0 && len(trimmed) < v.MinChars {
		return fmt.Errorf("%w: %d chars, need %d", ErrTooShort, len(trimmed), v.MinChars)
	}
	if v.MinWords > 0 {
		words := len(strings.Fields(trimmed))
		if words < v.MinWords {
			return fmt.Errorf("%w: %d words, need %d", ErrTooShort, words, v.MinWords)
		}
	}
	return nil
}

// Rejected reports whether err came from this validator.
func Rejected(err error) bool {
	return errors.Is(err, ErrEmpty) || errors.Is(err, ErrTooShort)
}
