package core

import (
	"context"
	"time"

	"github.com/hupe1980/socialmesh/logging"
)

// ExecutionContext is the accumulating key/value state threaded through a
// workflow run. The caller seeds Values; the orchestrator appends each step's
// outcome to Results keyed by step id. Ownership transfers between steps:
// each step sees the context as of the prior step's completion and steps run
// strictly sequentially, so no locking is required.
type ExecutionContext struct {
	Values  map[string]any `json:"values"`
	Results map[string]any `json:"results"`
}

// NewExecutionContext seeds a context from the given values. A nil seed
// yields an empty, usable context.
func NewExecutionContext(seed map[string]any) *ExecutionContext {
	values := make(map[string]any, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &ExecutionContext{Values: values, Results: make(map[string]any)}
}

// Set stores a value under key.
func (c *ExecutionContext) Set(key string, value any) { c.Values[key] = value }

// Get returns the value for key and whether it was present.
func (c *ExecutionContext) Get(key string) (any, bool) {
	v, ok := c.Values[key]
	return v, ok
}

// SetResult records a step result under the step id.
func (c *ExecutionContext) SetResult(stepID string, result any) { c.Results[stepID] = result }

// Result returns the recorded result for a step id.
func (c *ExecutionContext) Result(stepID string) (any, bool) {
	v, ok := c.Results[stepID]
	return v, ok
}

// Clone returns a shallow copy with independent top-level maps. Values remain
// shared references; mutating nested structures affects both copies.
func (c *ExecutionContext) Clone() *ExecutionContext {
	clone := &ExecutionContext{
		Values:  make(map[string]any, len(c.Values)),
		Results: make(map[string]any, len(c.Results)),
	}
	for k, v := range c.Values {
		clone.Values[k] = v
	}
	for k, v := range c.Results {
		clone.Results[k] = v
	}
	return clone
}

// ActionContext is the per-call scope an agent action receives. It merges the
// caller's ExecutionContext with the call bindings the executor resolves at
// invocation time (connector, timestamp, execution id) plus sequence-threading
// fields populated by ExecuteSequence.
type ActionContext struct {
	Context     context.Context
	ExecutionID string
	Timestamp   time.Time
	Connector   Connector
	Memory      MemoryStore
	Exec        *ExecutionContext
	Logger      logging.Logger

	// LastAction / LastResult carry the previous step of an action sequence.
	// Empty / nil for the first action.
	LastAction string
	LastResult any
}
