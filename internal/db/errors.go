package db

import "errors"

// ErrKeyNotFound is returned by Get for a cache miss.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names the store command that failed.
const (
	OpPing = "PING"
	OpGet  = "GET"
	OpSet  = "SET"
)

// Error wraps a store failure with the command and, for keyed commands,
// the key it was issued for.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
