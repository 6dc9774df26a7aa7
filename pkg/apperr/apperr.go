// Package apperr holds the error kinds returned by the membership and access core.
// Callers wrap them with fmt.Errorf("...: %w") and test them with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound: referenced plan, membership, user or check-in does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the operation would violate an invariant (e.g. deleting a plan in use).
	ErrConflict = errors.New("conflict")
	// ErrMembershipInvalid: check-in attempted without an effectively active membership.
	ErrMembershipInvalid = errors.New("membership invalid")
	// ErrSessionAlreadyOpen: check-in attempted while the member already has an open session.
	ErrSessionAlreadyOpen = errors.New("session already open")
	// ErrValidation: malformed input.
	ErrValidation = errors.New("validation error")
)
