package model

import "errors"

var (
	// Listing related errors
	ErrUnknownEntity = errors.New("unknown entity")
	ErrUnknownLookup = errors.New("unknown lookup type")

	// Soft-delete related errors
	ErrAlreadyDeleted  = errors.New("record already deleted")
	ErrRecordNotFound  = errors.New("record not found")
	ErrNoPendingDelete = errors.New("no delete pending confirmation")
	ErrBackendRejected = errors.New("backend rejected the operation")

	// Session related errors
	ErrSessionRequired = errors.New("session cookie required")
	ErrSessionExpired  = errors.New("session expired")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
