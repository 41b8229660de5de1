// Package services defines the business logic for appointment requests and
// review moderation. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer. Validation failures are reported separately as
// schema.FieldErrors.
package services

import "errors"

// Appointment-related errors.
var (
	// ErrAppointmentNotFound indicates that the requested appointment does not exist.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidStatus is returned when a status value is not one of
	// new, confirmed, completed, cancelled.
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrIllegalTransition is returned when the requested status cannot be
	// reached from the current one (e.g. anything out of a terminal state).
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Review-related errors.
var (
	// ErrReviewNotFound indicates that the requested review does not exist.
	ErrReviewNotFound = errors.New("review not found")
)
