package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a workflow, agent or memory key does not
	// exist. Callers may probe for it with errors.Is before acting.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned on registry name collisions. This is a
	// caller error and should not be retried.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotConnected is returned when a content or data operation is
	// attempted on a connector before a successful Connect.
	ErrNotConnected = errors.New("connector not connected")

	// ErrActionNotImplemented is returned when an agent or connector does not
	// expose the requested capability. This indicates a configuration error.
	ErrActionNotImplemented = errors.New("action not implemented")

	// ErrRateLimited is returned when a quota is exhausted and the limiter is
	// configured to reject rather than wait. Retryable after backoff.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidArgument is returned when a caller supplies a malformed
	// identifier or an unusable factory to a registry.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ExecutionError wraps a failed agent action with identifying context so
// callers of a workflow run can tell which step, agent and action failed.
// The underlying cause is preserved and reachable via errors.Unwrap.
type ExecutionError struct {
	AgentID  string
	Action   string
	Platform string
	Err      error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("agent %s action %s on %s: %v", e.AgentID, e.Action, e.Platform, e.Err)
	}
	return fmt.Sprintf("agent %s action %s: %v", e.AgentID, e.Action, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error { return e.Err }
