// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound indicates that a requested booking does not
// exist, while ErrConflict signals that an operation cannot proceed
// because of the record's current state (e.g. restoring a booking
// that was never deleted).
package repository

import "errors"

// ErrNotFound is returned when the requested record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as deleting a booking that is already
// deleted. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
