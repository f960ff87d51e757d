// Package apperrors defines the sentinel errors shared by the services and
// mapped to HTTP status codes by the handlers. Distinct failure kinds are
// never collapsed: callers must be able to branch on them.
package apperrors

import "errors"

var (
	// ErrNotFound covers a missing entity or one not owned by the caller.
	// The two cases are deliberately indistinguishable so that lookups never
	// leak the existence of other users' data.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyCompleted rejects a second completion of a habit inside the
	// same window.
	ErrAlreadyCompleted = errors.New("habit already completed in this period")

	// ErrWindowClosed rejects a completion against an achievement whose
	// validity window has elapsed or is not yet active.
	ErrWindowClosed = errors.New("achievement window is closed")

	// ErrExpired rejects a claim of an expired achievement or reward.
	ErrExpired = errors.New("expired")

	// ErrAlreadyClaimed rejects a repeat claim of an achievement.
	ErrAlreadyClaimed = errors.New("achievement already claimed")

	// ErrInsufficientBalance means the requested debit would drive the
	// balance negative.
	ErrInsufficientBalance = errors.New("insufficient point balance")

	// ErrInsufficientPoints means the user's balance is below an
	// achievement's target.
	ErrInsufficientPoints = errors.New("insufficient points for target")

	// ErrInvalidDelta rejects a zero ledger delta.
	ErrInvalidDelta = errors.New("delta must be a non-zero integer")

	// ErrInvalidPoints rejects a habit whose points per completion is not a
	// positive integer.
	ErrInvalidPoints = errors.New("points per completion must be positive")

	// ErrInvalidFrequency rejects an unknown frequency value.
	ErrInvalidFrequency = errors.New("frequency must be DAILY or WEEKLY")
)
