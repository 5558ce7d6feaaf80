package connector

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/logging"
)

// Factory constructs a connector for one platform from a deployment-supplied
// configuration map.
type Factory func(config map[string]any) (core.Connector, error)

// platformIDPattern constrains platform identifiers to lowercase slugs.
var platformIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Registry maps platform identifiers to connector factories. It is an
// explicit instance owned by the composition root and passed by reference to
// everything that creates connectors; there is no package-level mutable
// registry.
//
// Registration and creation are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	logger    logging.Logger
}

// NewRegistry creates an empty registry. Deployments add platforms with
// Register; unregistered platforms fall back to the generic connector.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Registry{
		factories: make(map[string]Factory),
		logger:    opts.Logger,
	}
}

// Register adds (or replaces) the factory for a platform identifier. It
// fails with ErrInvalidArgument when the identifier is not a valid slug or
// the factory is nil.
func (r *Registry) Register(platformID string, factory Factory) error {
	if !platformIDPattern.MatchString(platformID) {
		return fmt.Errorf("%w: platform id %q", core.ErrInvalidArgument, platformID)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for platform %q", core.ErrInvalidArgument, platformID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[platformID] = factory
	return nil
}

// Create returns a best-effort connector for the platform. A registered
// identifier yields the dedicated implementation; an unknown identifier
// yields the generic fallback and a logged warning rather than an error.
func (r *Registry) Create(platformID string, config map[string]any) (core.Connector, error) {
	r.mu.RLock()
	factory, ok := r.factories[platformID]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("no connector registered for platform, using generic fallback", "platform", platformID)
		return NewGeneric(platformID, r.logger), nil
	}

	conn, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector for platform %s: %w", platformID, err)
	}
	return conn, nil
}

// Platforms returns the registered platform identifiers, order unspecified.
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	platforms := make([]string, 0, len(r.factories))
	for id := range r.factories {
		platforms = append(platforms, id)
	}
	return platforms
}

// CreateMultiPlatform builds one connector per requested platform and wraps
// them in a fan-out façade. Configs map platform identifiers to their
// connector configuration.
func (r *Registry) CreateMultiPlatform(configs map[string]map[string]any, optFns ...func(o *MultiPlatformOptions)) (*MultiPlatform, error) {
	connectors := make(map[string]core.Connector, len(configs))
	for platformID, config := range configs {
		conn, err := r.Create(platformID, config)
		if err != nil {
			return nil, err
		}
		connectors[platformID] = conn
	}
	return NewMultiPlatform(connectors, optFns...), nil
}
