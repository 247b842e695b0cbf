// Package services defines the business logic for study groups, matching,
// resources, bookings, topper verification, and AI content generation. This
// file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Profile / authorization errors.
var (
	// ErrProfileNotFound indicates that no profile exists for the
	// authenticated identity.
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrNotStudent is returned when an operation is reserved for the
	// student role (e.g., booking a session).
	ErrNotStudent = errors.New("only students can perform this action")

	// ErrNotVerifiedTopper is returned when an operation requires a
	// CGPA-verified topper (e.g., uploading resources).
	ErrNotVerifiedTopper = errors.New("only verified toppers can perform this action")

	// ErrNotAdmin is returned when an operation requires the admin role.
	ErrNotAdmin = errors.New("admin role required")
)

// Study-group errors.
var (
	// ErrGroupNotFound indicates the group does not exist or is inactive.
	ErrGroupNotFound = errors.New("group not found or inactive")

	// ErrInvalidJoinCode indicates no active group carries the given code.
	ErrInvalidJoinCode = errors.New("invalid or expired join code")

	// ErrJoinCodeRequired is returned when a join request has no code.
	ErrJoinCodeRequired = errors.New("join code is required")

	// ErrGroupFull is returned when the group has no available spots.
	ErrGroupFull = errors.New("this group is full")

	// ErrAlreadyMember is returned when the user already belongs to the group.
	ErrAlreadyMember = errors.New("already a member of this group")

	// ErrGroupFieldsRequired is returned when a create request lacks a name
	// or a positive member cap.
	ErrGroupFieldsRequired = errors.New("name and max members are required")

	// ErrJoinCodeExhausted is returned when join-code issuance ran out of
	// attempts; the group is not created.
	ErrJoinCodeExhausted = errors.New("could not generate a unique join code")
)

// Resource / booking errors.
var (
	// ErrResourceNotFound indicates the resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrNotPurchased is returned when a paid resource is downloaded without
	// a completed purchase.
	ErrNotPurchased = errors.New("resource not purchased")

	// ErrResourceFieldsRequired is returned when a publish request lacks a
	// title or file URL.
	ErrResourceFieldsRequired = errors.New("title and file are required")

	// ErrInvalidTopper is returned when a booking targets a user who is not
	// a verified topper.
	ErrInvalidTopper = errors.New("invalid topper")

	// ErrBookingFieldsRequired is returned when a booking request lacks a
	// topper, duration, or schedule.
	ErrBookingFieldsRequired = errors.New("topper, duration and schedule are required")

	// ErrInvalidCGPA is returned when a verification request carries a CGPA
	// outside [0,10].
	ErrInvalidCGPA = errors.New("invalid CGPA, must be between 0 and 10")
)
