package agent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/socialmesh/core"
)

// BaseAgent bundles identity, platform bindings and the action lookup table.
// Embed it in concrete agent implementations and register actions at
// construction time. All exported methods are goroutine-safe.
type BaseAgent struct {
	id          string
	description string
	platforms   []string
	mu          sync.RWMutex
	actions     map[string]core.ActionFunc
}

var _ core.Agent = (*BaseAgent)(nil)

// NewBaseAgent constructs a BaseAgent bound to the given platforms with a
// generated description (customizable via SetDescription).
func NewBaseAgent(id string, platforms ...string) *BaseAgent {
	return &BaseAgent{
		id:          id,
		description: fmt.Sprintf("Agent %s", id),
		platforms:   platforms,
		actions:     make(map[string]core.ActionFunc),
	}
}

// ID returns the unique agent identifier.
func (b *BaseAgent) ID() string { return b.id }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// Platforms returns the platform identifiers this agent targets.
func (b *BaseAgent) Platforms() []string {
	return append([]string(nil), b.platforms...)
}

// RegisterAction adds a named capability to the agent's lookup table,
// replacing any previous action of the same name. It fails with
// ErrInvalidArgument when the name is empty or the function is nil.
func (b *BaseAgent) RegisterAction(name string, fn core.ActionFunc) error {
	if name == "" {
		return fmt.Errorf("%w: empty action name", core.ErrInvalidArgument)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil action func for %q", core.ErrInvalidArgument, name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions[name] = fn
	return nil
}

// Action returns the named capability and whether the agent exposes it.
func (b *BaseAgent) Action(name string) (core.ActionFunc, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn, ok := b.actions[name]
	return fn, ok
}

// Actions lists the names of all exposed capabilities, sorted.
func (b *BaseAgent) Actions() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.actions))
	for name := range b.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
