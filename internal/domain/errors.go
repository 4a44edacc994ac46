package domain

import "errors"

var (
	// ErrBadEnvelope indicates a request that could not be decoded into a
	// known command.
	ErrBadEnvelope = errors.New("bad request envelope")
	// ErrRejected is returned when the monitor answered success=false.
	ErrRejected = errors.New("request rejected")
	// ErrTimeout is returned when no reply arrived within the read timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrNotRunning indicates an operation that requires a running server loop.
	ErrNotRunning = errors.New("monitor is not running")
)
