// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrAlreadyProcessed signals that an edit
// request has already left its pending state.
package repository

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own or lack the role for. Handlers
// should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed
// because of conflicting state. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrAlreadyProcessed is returned when a resolution is attempted on
// an edit request whose status has already left PENDING. It wraps
// ErrConflict so errors.Is(err, ErrConflict) also holds.
var ErrAlreadyProcessed = fmt.Errorf("request already processed: %w", ErrConflict)

// ErrDependencyFailure marks failures of the external business
// directory. Handlers should translate this into an HTTP 502
// response carrying the provider's message when one is available.
var ErrDependencyFailure = errors.New("external dependency unavailable")
