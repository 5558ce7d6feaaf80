package workflow

import (
	"time"

	"github.com/hupe1980/socialmesh/core"
)

// Condition is an optional per-step predicate evaluated against the step's
// result and the accumulated execution context. A false verdict aborts the
// remaining steps of the run without raising an error; a step with no
// condition always continues.
type Condition func(result any, exec *core.ExecutionContext) bool

// Step binds one agent action into a workflow. Memorize marks the step's
// result for durable persistence into the memory store.
type Step struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	Action    string    `json:"action"`
	Condition Condition `json:"-"`
	Memorize  bool      `json:"memorize,omitempty"`
}

// Definition is a named, ordered step list. Name is the unique, immutable
// registry key; step order is execution order and is significant.
type Definition struct {
	Name       string    `json:"name"`
	Steps      []Step    `json:"steps"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
	ClonedFrom string    `json:"cloned_from,omitempty"`
}

// copySteps returns an independent slice so registry state can never be
// mutated through a caller-held definition.
func copySteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

func (d *Definition) copy() *Definition {
	cp := *d
	cp.Steps = copySteps(d.Steps)
	return &cp
}
