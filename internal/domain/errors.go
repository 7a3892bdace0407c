package domain

import "errors"

// ErrNotFound is returned by every repository implementation, local or
// remote, when the referenced record does not exist.
var ErrNotFound = errors.New("not found")

// ErrBadCredentials is returned when an email/password pair is rejected.
var ErrBadCredentials = errors.New("invalid email or password")

// ErrConflict is returned when a write would violate a uniqueness rule.
var ErrConflict = errors.New("conflict")
