// Package common defines sentinel errors shared by the repositories, the
// services and the CLI of HydroKeeper. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Validation errors. Returned before any state change.
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidUnit   = errors.New("invalid unit")
	ErrInvalidValue  = errors.New("invalid value")

	// Lookup errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")

	// ErrStorageUnavailable wraps every failure of the persistence layer.
	// Services never retry it; the caller decides.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotInitialized is returned by services used before storage is open.
	ErrNotInitialized = errors.New("storage not initialized")
)
