// Package socialmesh provides a high-level façade over the orchestration
// runtime: workflow registry, connector registry, agent executors, memory
// store and rate limiter. Most applications interact with this package by:
//  1. Creating a SocialMesh via New() (optionally overriding default services)
//  2. Registering connector factories and agents
//  3. Registering workflows and running them (immediately, scheduled, or as
//     an agent chain)
//
// All defaults are safe for local development and testing: memory is
// process-local, rate limiting is unlimited, and logging is silent.
// Production deployments typically supply a redis address, per-key rate
// limits and a structured logger, most conveniently through NewFromConfig.
package socialmesh

import (
	"context"
	"os"
	"time"

	"github.com/hupe1980/socialmesh/config"
	"github.com/hupe1980/socialmesh/connector"
	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/executor"
	"github.com/hupe1980/socialmesh/logging"
	"github.com/hupe1980/socialmesh/memory"
	"github.com/hupe1980/socialmesh/orchestrator"
	"github.com/hupe1980/socialmesh/ratelimit"
	"github.com/hupe1980/socialmesh/workflow"
)

// Options configures the SocialMesh instance.
type Options struct {
	// Memory stores agent and workflow state. Defaults to an in-process
	// vector-capable store.
	Memory core.VectorMemoryStore

	// Connectors supplies platform connectors to executors. Defaults to an
	// empty registry that falls back to the generic connector.
	Connectors *connector.Registry

	// Limiter gates every agent action. Defaults to an unlimited keyed
	// limiter, so wiring it unconditionally is safe.
	Limiter core.RateLimiter

	// ChainAction is the fixed action name used by ChainAgents. Defaults to
	// "generate".
	ChainAction string

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// SocialMesh is the high-level façade aggregating the orchestrator and the
// services it depends on.
type SocialMesh struct {
	opts       Options
	workflows  *workflow.Registry
	connectors *connector.Registry
	orch       *orchestrator.Orchestrator
}

// New creates a SocialMesh instance with optional overrides. Any unset
// service is initialized with an in-process implementation.
func New(optFns ...func(o *Options)) *SocialMesh {
	opts := Options{
		ChainAction: "generate",
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Memory == nil {
		opts.Memory = memory.New(context.Background(), func(o *memory.Options) {
			o.Logger = opts.Logger
		})
	}
	if opts.Connectors == nil {
		opts.Connectors = connector.NewRegistry(func(o *connector.RegistryOptions) {
			o.Logger = opts.Logger
		})
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.New(func(o *ratelimit.Options) {
			o.Logger = opts.Logger
		})
	}

	workflows := workflow.NewRegistry()
	orch := orchestrator.New(workflows, func(o *orchestrator.Options) {
		o.Memory = opts.Memory
		o.ChainAction = opts.ChainAction
		o.Logger = opts.Logger
	})

	return &SocialMesh{
		opts:       opts,
		workflows:  workflows,
		connectors: opts.Connectors,
		orch:       orch,
	}
}

// NewFromConfig builds a SocialMesh from a loaded config file, wiring the
// memory backing, rate limits and logger it describes. Explicit option
// overrides still win over config values.
func NewFromConfig(ctx context.Context, cfg *config.Config, optFns ...func(o *Options)) *SocialMesh {
	if cfg == nil {
		cfg = config.Default()
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Output: os.Stdout,
	})

	limits := make(map[string]ratelimit.Limit, len(cfg.RateLimit.Limits))
	for key, entry := range cfg.RateLimit.Limits {
		limits[key] = ratelimit.Limit{Rate: entry.Rate, Burst: entry.Burst}
	}

	base := []func(o *Options){
		func(o *Options) {
			o.Logger = logger
			o.ChainAction = cfg.Workflow.ChainAction
			o.Memory = memory.New(ctx, func(mo *memory.Options) {
				mo.RedisAddr = cfg.Memory.RedisAddr
				mo.RedisPassword = cfg.Memory.RedisPassword
				mo.RedisDB = cfg.Memory.RedisDB
				mo.Logger = logger
			})
			o.Limiter = ratelimit.New(func(lo *ratelimit.Options) {
				lo.Policy = ratelimit.ParsePolicy(cfg.RateLimit.Policy)
				lo.Default = ratelimit.Limit{Rate: cfg.RateLimit.DefaultRate, Burst: cfg.RateLimit.DefaultBurst}
				lo.Limits = limits
				lo.Logger = logger
			})
		},
	}
	return New(append(base, optFns...)...)
}

// Memory returns the shared memory store.
func (m *SocialMesh) Memory() core.VectorMemoryStore { return m.opts.Memory }

// Workflows returns the workflow registry.
func (m *SocialMesh) Workflows() *workflow.Registry { return m.workflows }

// Connectors returns the connector registry.
func (m *SocialMesh) Connectors() *connector.Registry { return m.connectors }

// RegisterConnector adds a platform connector factory.
func (m *SocialMesh) RegisterConnector(platformID string, factory connector.Factory) error {
	return m.connectors.Register(platformID, factory)
}

// RegisterAgent wires an executor for the agent (bound to a connector for
// its first platform, sharing the mesh's memory, limiter and logger) and
// registers it with the orchestrator. Hooks observe the new executor's
// action lifecycle.
func (m *SocialMesh) RegisterAgent(a core.Agent, hooks ...executor.Hook) error {
	ex, err := executor.New(a, func(o *executor.Options) {
		o.Registry = m.connectors
		o.Limiter = m.opts.Limiter
		o.Memory = m.opts.Memory
		o.Hooks = hooks
		o.Logger = m.opts.Logger
	})
	if err != nil {
		return err
	}
	return m.orch.RegisterAgent(ex)
}

// Executor returns the executor registered for an agent ID, for callers
// that need direct action invocation or history access.
func (m *SocialMesh) Executor(agentID string) (*executor.AgentExecutor, bool) {
	return m.orch.Executor(agentID)
}

// RegisterWorkflow adds a named workflow definition.
func (m *SocialMesh) RegisterWorkflow(name string, steps []workflow.Step) error {
	return m.workflows.Register(name, steps)
}

// ExecuteWorkflow runs a registered workflow to completion, abort or
// failure.
func (m *SocialMesh) ExecuteWorkflow(ctx context.Context, name string, exec *core.ExecutionContext) (*orchestrator.RunResult, error) {
	return m.orch.ExecuteWorkflow(ctx, name, exec)
}

// ScheduleWorkflow defers a workflow run until at, returning a cancellable
// handle. A zero or past time runs immediately.
func (m *SocialMesh) ScheduleWorkflow(ctx context.Context, name string, exec *core.ExecutionContext, at time.Time) (*orchestrator.ScheduledExecution, error) {
	return m.orch.ScheduleWorkflow(ctx, name, exec, at)
}

// ChainAgents registers a synthetic workflow chaining the agents in order
// and returns its generated name.
func (m *SocialMesh) ChainAgents(agentIDs []string) (string, error) {
	return m.orch.ChainAgents(agentIDs)
}

// ListScheduled returns the pending scheduled runs.
func (m *SocialMesh) ListScheduled() []*orchestrator.ScheduledExecution {
	return m.orch.ListScheduled()
}

// CancelAll cancels all pending scheduled runs.
func (m *SocialMesh) CancelAll() int { return m.orch.CancelAll() }
