package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when an attendee, room, bus, or event does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a request references entities that are
	// syntactically valid but unusable, such as a room marked unavailable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConstraintViolation is returned when an assignment would break a
	// hard (error-severity) constraint. The conflicts accompany the error.
	ErrConstraintViolation = errors.New("assignment violates a hard constraint")

	// ErrOverrideRequired is returned when only warning-severity conflicts
	// block an assignment; callers may retry with the override flag set.
	ErrOverrideRequired = errors.New("assignment requires warning override")

	// ErrInvariantBroken indicates persisted state that should be unreachable,
	// such as a room over capacity after a committed operation. It is a bug.
	ErrInvariantBroken = errors.New("occupancy invariant broken")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
