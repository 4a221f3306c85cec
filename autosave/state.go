package autosave

import (
	"errors"
	"time"
)

// State is the autosave status surfaced to the editor.
type State string

const (
	StateIdle   State = "idle"
	StateSaving State = "saving"
	StateSaved  State = "saved"
	StateError  State = "error"
)

// ErrValidationFailed is recorded when a cycle is blocked by graph or node errors.
var ErrValidationFailed = errors.New("autosave: workflow has validation errors")

// Status is a point-in-time view of a Saver.
type Status struct {
	State     State     `json:"state"`
	LastSaved time.Time `json:"lastSaved,omitzero"`
	Err       error     `json:"-"`
	Message   string    `json:"error,omitempty"`
}

func newStatus(st State, lastSaved time.Time, err error) Status {
	s := Status{State: st, LastSaved: lastSaved, Err: err}
	if err != nil && st == StateError {
		s.Message = err.Error()
	}
	return s
}
