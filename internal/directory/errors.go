package directory

import "errors"

// Every error a Directory operation can classify. The HTTP surface maps
// these to status codes and never sees store-level errors. Match with
// errors.Is.
var (
	// ErrInvalidID means an id-mode lookup was given a string that is not a
	// valid UUID.
	ErrInvalidID = errors.New("invalid user id")

	// ErrNotFound means no user matched the given id or username.
	ErrNotFound = errors.New("user not found")

	// ErrConflict means a create or username change collided with an
	// existing username.
	ErrConflict = errors.New("user already exists")
)
