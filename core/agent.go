package core

// ActionFunc is a single callable agent capability. It receives the per-call
// ActionContext and returns an opaque result or an error. Implementations
// must respect cancellation of actx.Context on blocking work.
type ActionFunc func(actx *ActionContext) (any, error)

// Agent is a named unit exposing callable actions (e.g. "post", "analyze").
//
// The action set is resolved once at registration time via a lookup table
// rather than per-call reflection, so a missing capability surfaces as
// ErrActionNotImplemented before any side effect occurs. Agents also declare
// the platforms they operate on, used to select connectors at wiring time.
type Agent interface {
	// ID returns the unique agent identifier.
	ID() string

	// Platforms lists the platform identifiers this agent targets. The first
	// entry is used as the default connector platform.
	Platforms() []string

	// Action returns the named capability and whether the agent exposes it.
	Action(name string) (ActionFunc, bool)

	// Actions lists the names of all exposed capabilities.
	Actions() []string

	// Description returns a human-readable description of the agent's purpose.
	Description() string
}
