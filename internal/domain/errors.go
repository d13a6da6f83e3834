package domain

import "errors"

// Sentinel errors shared across services. Controllers map these onto the
// API error envelope; services never let raw repository errors cross the
// delivery boundary unwrapped.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicate           = errors.New("duplicate record")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEventHasEnrollments = errors.New("event has enrollments")
	ErrUserHasRecords      = errors.New("user has attendance or speaker records")
)
