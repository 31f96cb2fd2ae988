package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or empty ticket input.
	// The pipeline degrades on this; it never fails a run for it.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexUnavailable indicates the lexical index has not been
	// built yet. Retrieval returns an empty result set, not an error.
	ErrIndexUnavailable = errors.New("lexical index unavailable")

	// ErrProviderUnavailable indicates the generative provider is not
	// configured. Drafting degrades to template or fallback.
	ErrProviderUnavailable = errors.New("generative provider unavailable")

	// ErrRateLimited indicates the generative provider call was
	// refused by the local rate limiter. The drafter does not retry
	// within a call; the caller degrades instead.
	ErrRateLimited = errors.New("rate limited")

	// ErrMissingConfig indicates a required setting is absent, such as
	// an API key when the generative strategy is enabled. This is a
	// deployment mistake and must surface to the caller.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrInvalidOutcome indicates an unknown review outcome value.
	ErrInvalidOutcome = errors.New("invalid review outcome")
)
