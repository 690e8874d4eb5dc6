package domain

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound is returned when an operation targets a node id absent from the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrUnknownNode is the sentinel behind every ReferenceError.
var ErrUnknownNode = errors.New("edge references unknown node")

// ErrInvalidConfig is returned when a config patch holds a value that cannot be serialized.
var ErrInvalidConfig = errors.New("node config is not serializable")

// ErrAgentNotFound is returned when an agent id cannot be found.
var ErrAgentNotFound = errors.New("agent not found")

// ReferenceError is returned by connect when an endpoint is absent from the graph.
type ReferenceError struct {
	Source  string
	Target  string
	Missing string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("cannot connect %q -> %q: node %q does not exist", e.Source, e.Target, e.Missing)
}

func (e *ReferenceError) Unwrap() error { return ErrUnknownNode }

// TransportError means the backend could not be reached or its reply could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError is a failure reported by the backend itself (HTTP status >= 400).
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrAgentNotFound) match a 404 from the backend.
func (e *BackendError) Is(target error) bool {
	return target == ErrAgentNotFound && e.StatusCode == 404
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
