package models

import "errors"

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

// Result is the outcome of a write against the store.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OK is a successful Result.
func OK() Result {
	return Result{Success: true}
}

// Failed converts a store error into a failed Result.
func Failed(err error) Result {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Result{Success: false, Error: msg}
}
