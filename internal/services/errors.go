// Package services defines the business logic of the feedback dashboard:
// loading the feedback collection, deriving the active view, exporting it,
// seeding the collection and authenticating dashboard users.
//
// This file centralizes the service-level error values so they can be
// returned consistently by service methods and checked by callers with
// errors.Is. Translation into HTTP status codes and user-facing messages
// happens in the handlers package.
package services

import "errors"

// Dashboard errors.
var (
	// ErrLoadFailed indicates that the feedback collection could not be read.
	// Its message doubles as the notice shown next to an empty view.
	ErrLoadFailed = errors.New("could not load feedback")

	// ErrNothingToExport is returned when an export is requested for an
	// empty active view.
	ErrNothingToExport = errors.New("no feedback to export")

	// ErrExportFailed is returned when a serializer fails. No partial output
	// is produced.
	ErrExportFailed = errors.New("failed to export feedback")
)

// Auth errors.
var (
	// ErrInvalidCredentials covers every login failure: unknown e-mail,
	// wrong password and store errors alike.
	ErrInvalidCredentials = errors.New("invalid credentials, check your email and password")

	// ErrUnauthenticated is returned when a bearer token is missing or invalid.
	ErrUnauthenticated = errors.New("authentication required")
)
