// Package service implements the booking core: account and session state,
// password-gated booking state, and read access to the event catalog.
//
// Each store owns its durable keys and writes through on every mutation,
// so a fresh process that calls Restore sees the same state. A failed
// operation leaves both memory and durable storage as they were.
package service

import "errors"

var (
	// ErrAlreadyExists is returned when registering an email that is
	// already in use.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned when no account matches the
	// email and password given to Login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidPassword is returned when a booking change is attempted
	// without a session or with a password that does not match the
	// signed-in account.
	ErrInvalidPassword = errors.New("invalid password")

	ErrInvalidAccount   = errors.New("name and email are required")
	ErrNotAuthenticated = errors.New("not signed in")
	ErrNotOwner         = errors.New("booking does not belong to the signed-in account")
	ErrInvalidBooking   = errors.New("invalid booking")
)
