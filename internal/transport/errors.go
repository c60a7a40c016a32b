package transport

import (
	"errors"
	"fmt"
)

// Error is a transport failure: the round-trip itself failed, or the server
// answered with a non-success status. Shape problems are not transport
// errors; the normalizer absorbs those.
type Error struct {
	Op     string // "load_transactions", "submit", ...
	Status int    // HTTP status, 0 for network-level failures
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsFailure reports whether err is (or wraps) a transport failure.
func IsFailure(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
