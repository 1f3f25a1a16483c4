// Package services defines the business logic for the catalog query
// resolver. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Pagination errors.
var (
	// ErrInvalidLimit is returned when the requested page size is outside
	// [1, MaxLimit]. The caller recovers by correcting the input.
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")

	// ErrInvalidOffset is returned when the requested offset is outside
	// [0, MaxOffset].
	ErrInvalidOffset = errors.New("offset must be between 0 and 500")
)
