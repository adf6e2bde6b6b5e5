package core

import (
	"errors"

	"lockbox/protocol"
)

var (
	// ErrBusy is returned when the command queue is full; callers retry later
	ErrBusy = errors.New("command queue full")

	// ErrNotInitialized is returned by operations invoked before Init
	ErrNotInitialized = errors.New("not initialized")

	// ErrUnexpected marks a malformed or unrecognized protocol byte
	ErrUnexpected = errors.New("unexpected protocol byte")

	// ErrMechanismRejected is returned when a mechanism is already in the
	// requested physical condition; nothing was actuated
	ErrMechanismRejected = errors.New("mechanism already in requested condition")

	// ErrCloseTimeout is returned when the lid did not report closed in time
	ErrCloseTimeout = errors.New("timed out waiting for lid to close")

	// ErrNoHandler is returned by the default host command callbacks
	ErrNoHandler = errors.New("no handler registered")

	// ErrInvalidAngle is returned for servo angles outside 0..180
	ErrInvalidAngle = errors.New("servo angle out of range")
)

// StatusCode maps an error onto the wire return codes
func StatusCode(err error) protocol.Status {
	switch {
	case err == nil:
		return protocol.StatusOK
	case errors.Is(err, ErrBusy):
		return protocol.StatusErrBusy
	case errors.Is(err, ErrNotInitialized):
		return protocol.StatusErrNotInit
	}
	return protocol.StatusErrUnexpected
}

// statusText renders an operation result for the operator console
func statusText(err error) string {
	switch {
	case err == nil:
		return protocol.StatusOK.String()
	case errors.Is(err, ErrMechanismRejected):
		return "REJECTED"
	case errors.Is(err, ErrBusy), errors.Is(err, ErrNotInitialized), errors.Is(err, ErrUnexpected):
		return StatusCode(err).String()
	}
	return "ERROR: " + err.Error()
}
