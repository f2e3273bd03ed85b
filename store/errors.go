package store

import "errors"

// ErrNotFound is returned when no row exists for an account.
var ErrNotFound = errors.New("user preference not found")

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported database driver")
