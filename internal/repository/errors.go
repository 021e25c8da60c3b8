// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as the auth service and handlers to distinguish between
// failure scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Repositories
// translate sql.ErrNoRows into this sentinel so callers do not need
// to import database/sql.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert would violate the unique
// email constraint on the accounts table.
var ErrEmailExists = errors.New("email already exists")
