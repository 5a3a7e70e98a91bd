package types

import "errors"

// Errors returned across the store and session boundaries. Callers compare
// with errors.Is; underlying SQLite failures are wrapped, not replaced.
var (
	// ErrValidation reports an annotation payload missing resource, item,
	// or a creator ORCID. Nothing is written when it is returned.
	ErrValidation = errors.New("invalid annotation: resource, item and creator orcid are required")

	// ErrForbidden reports a missing or invalid credential key or session
	// token. The guarded operation is not invoked.
	ErrForbidden = errors.New("forbidden")

	// ErrStoreClosed reports an operation on a closed annotation store.
	ErrStoreClosed = errors.New("annotation store is closed")
)
