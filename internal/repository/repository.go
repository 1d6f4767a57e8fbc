// Package repository implements durable storage for the ticket booking system.
//
// All persistent state lives behind Store, a narrow key-value port. The
// booking state uses exactly three keys (see KeyUsers, KeySession and
// KeyBookings), each holding a JSON document, so any backend that can
// read, write and delete a value by key can hold it.
package repository

import (
	"context"
	"errors"
	"io"
)

// Durable keys. The shape is shared with state persisted by earlier
// versions of the application and must not change without a migration.
const (
	KeyUsers    = "users"
	KeySession  = "user"
	KeyBookings = "bookings"
)

// ErrNotFound is returned when a requested key or resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrMalformedState is returned when durable storage holds data that cannot
// be decoded into the expected shape.
var ErrMalformedState = errors.New("malformed persisted state")

// Store is a durable key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Close releases the resources held by s if it has any.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
