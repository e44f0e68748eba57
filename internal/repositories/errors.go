package repositories

import "errors"

var (
	// ErrNotFound is returned by lookups for ids the store does not hold.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email twice.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnchanged may be returned by a Mutate callback to skip the write.
	ErrUnchanged = errors.New("unchanged")
)
