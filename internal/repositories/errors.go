package repositories

import "errors"

// ErrNotFound is returned by every repository when the requested row does
// not exist. Services translate it rather than matching error strings.
var ErrNotFound = errors.New("record not found")
