// Package policy implements the role-scoped ticket visibility rules and the
// status-transition workflow. All functions take the acting party explicitly;
// nothing in this package reads ambient session state or touches storage.
package policy

import "errors"

// Expected, user-facing outcomes. Callers map these onto transport errors;
// none of them is fatal.
var (
	ErrNotFound          = errors.New("ticket not found")
	ErrUnauthorized      = errors.New("actor not permitted")
	ErrInvalidTransition = errors.New("status transition not permitted")
	ErrAlreadyEscalated  = errors.New("ticket already escalated")
	ErrAlreadyClosed     = errors.New("ticket already closed")
)
