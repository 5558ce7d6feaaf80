package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/socialmesh/core"
)

// Registry stores workflow definitions by name. All methods are safe for
// concurrent use; returned definitions are copies, so callers cannot mutate
// registry state through them.
type Registry struct {
	mu        sync.RWMutex
	workflows map[string]*Definition
	now       func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		workflows: make(map[string]*Definition),
		now:       time.Now,
	}
}

// Register stores a new definition. It fails with ErrAlreadyExists when the
// name is taken.
func (r *Registry) Register(name string, steps []Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workflows[name]; ok {
		return fmt.Errorf("workflow %q: %w", name, core.ErrAlreadyExists)
	}
	r.workflows[name] = &Definition{
		Name:      name,
		Steps:     copySteps(steps),
		CreatedAt: r.now(),
	}
	return nil
}

// Get returns a copy of the definition and whether it exists. Absence is an
// expected outcome, not an error; callers must check the second return.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.workflows[name]
	if !ok {
		return nil, false
	}
	return def.copy(), true
}

// Update replaces the steps of an existing definition and stamps UpdatedAt.
// It fails with ErrNotFound when the name is absent.
func (r *Registry) Update(name string, steps []Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.workflows[name]
	if !ok {
		return fmt.Errorf("workflow %q: %w", name, core.ErrNotFound)
	}
	def.Steps = copySteps(steps)
	def.UpdatedAt = r.now()
	return nil
}

// Remove deletes a definition. It fails with ErrNotFound when absent.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workflows[name]; !ok {
		return fmt.Errorf("workflow %q: %w", name, core.ErrNotFound)
	}
	delete(r.workflows, name)
	return nil
}

// Clone deep-copies the source definition's steps into a new definition
// registered under target and tagged with its origin. It fails with
// ErrNotFound when source is absent and ErrAlreadyExists when target is
// taken.
func (r *Registry) Clone(source, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.workflows[source]
	if !ok {
		return fmt.Errorf("workflow %q: %w", source, core.ErrNotFound)
	}
	if _, ok := r.workflows[target]; ok {
		return fmt.Errorf("workflow %q: %w", target, core.ErrAlreadyExists)
	}
	r.workflows[target] = &Definition{
		Name:       target,
		Steps:      copySteps(src.Steps),
		CreatedAt:  r.now(),
		ClonedFrom: source,
	}
	return nil
}

// Compose concatenates the step lists of the named member workflows, in the
// given order, into one new definition registered under newName. It fails
// with ErrNotFound on the first missing member and ErrAlreadyExists when
// newName is taken.
func (r *Registry) Compose(newName string, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workflows[newName]; ok {
		return fmt.Errorf("workflow %q: %w", newName, core.ErrAlreadyExists)
	}

	var steps []Step
	for _, name := range names {
		member, ok := r.workflows[name]
		if !ok {
			return fmt.Errorf("workflow %q: %w", name, core.ErrNotFound)
		}
		steps = append(steps, copySteps(member.Steps)...)
	}

	r.workflows[newName] = &Definition{
		Name:      newName,
		Steps:     steps,
		CreatedAt: r.now(),
	}
	return nil
}

// List returns all registered workflow names, order unspecified.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	return names
}
