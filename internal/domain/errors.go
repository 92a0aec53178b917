package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrCartChanged indicates the stored cart no longer matches an order built from it.
	ErrCartChanged = errors.New("cart changed")
)
