// Package apperr defines sentinel errors shared across the application.
package apperr

import "errors"

var (
	// ErrAIUnavailable marks AI-only features invoked without a usable
	// credential. These features have no local fallback.
	ErrAIUnavailable = errors.New("ai credential missing or placeholder")

	// ErrBadAIResponse marks an AI reply that did not contain the expected
	// JSON shape. Treated the same as a transport failure: recoverable,
	// surfaced to the caller, never partially applied.
	ErrBadAIResponse = errors.New("ai response not parseable")
)
