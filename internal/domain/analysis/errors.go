package analysis

import "errors"

// ErrNotFound covers both "does not exist" and "owned by someone else";
// callers must not be able to tell the two apart.
var ErrNotFound = errors.New("analysis not found")

// ErrInvalidID indicates a malformed record id in a request.
var ErrInvalidID = errors.New("invalid analysis id")
