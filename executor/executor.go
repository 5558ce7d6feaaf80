package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/socialmesh/connector"
	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/internal/util"
	"github.com/hupe1980/socialmesh/logging"
)

// Record is one entry of an executor's execution history. Exactly one of
// Result and Err is populated, matching Success.
type Record struct {
	AgentID     string        `json:"agent_id"`
	Action      string        `json:"action"`
	ExecutionID string        `json:"execution_id"`
	Timestamp   time.Time     `json:"timestamp"`
	Duration    time.Duration `json:"duration"`
	Success     bool          `json:"success"`
	Result      any           `json:"result,omitempty"`
	Err         error         `json:"error,omitempty"`
}

// Options configures an AgentExecutor.
type Options struct {
	// Connector binds the executor to a platform connector. When nil, one is
	// created through Registry for the agent's first platform.
	Connector core.Connector

	// Registry supplies connectors when Connector is nil.
	Registry *connector.Registry

	// ConnectorConfig is passed to the registry-created connector.
	ConnectorConfig map[string]any

	// Limiter gates every action. Nil disables rate limiting.
	Limiter core.RateLimiter

	// Memory is exposed to actions through the ActionContext.
	Memory core.MemoryStore

	// Hooks are lifecycle observers, invoked in the given order.
	Hooks []Hook

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// AgentExecutor invokes one agent's named actions through its bound
// connector, under the rate limiter. It exclusively owns its execution
// history: an in-process, append-only log that grows until ClearHistory is
// called. Callers needing bounded memory must clear it periodically; there
// is no built-in eviction.
type AgentExecutor struct {
	agent     core.Agent
	connector core.Connector
	limiter   core.RateLimiter
	memory    core.MemoryStore
	hooks     *hookManager
	logger    logging.Logger

	mu      sync.Mutex
	history []Record
}

// New binds an executor to an agent. When no connector is supplied and a
// registry is available, a connector for the agent's first platform is
// created (falling back to the generic connector for unknown platforms).
func New(agent core.Agent, optFns ...func(o *Options)) (*AgentExecutor, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	conn := opts.Connector
	if conn == nil && opts.Registry != nil {
		platform := "generic"
		if platforms := agent.Platforms(); len(platforms) > 0 {
			platform = platforms[0]
		}
		created, err := opts.Registry.Create(platform, opts.ConnectorConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create connector for agent %s: %w", agent.ID(), err)
		}
		conn = created
	}

	hooks := newHookManager(opts.Logger)
	for _, h := range opts.Hooks {
		hooks.register(h)
	}

	return &AgentExecutor{
		agent:     agent,
		connector: conn,
		limiter:   opts.Limiter,
		memory:    opts.Memory,
		hooks:     hooks,
		logger:    opts.Logger,
	}, nil
}

// Agent returns the bound agent.
func (e *AgentExecutor) Agent() core.Agent { return e.agent }

// Connector returns the bound connector, which may be nil for agents whose
// actions never touch a platform.
func (e *AgentExecutor) Connector() core.Connector { return e.connector }

// RegisterHook adds a lifecycle observer. Not safe to call concurrently with
// Execute; finish wiring before running.
func (e *AgentExecutor) RegisterHook(h Hook) { e.hooks.register(h) }

// Execute runs one named action of the bound agent:
//
//  1. Missing actions fail with ErrActionNotImplemented before any side
//     effect, hook or history entry.
//  2. Call bindings (connector, timestamp, execution id) are resolved into
//     the ActionContext handed to the action.
//  3. Observers see a before notification, then the limiter is consulted,
//     then the action runs.
//  4. The outcome is appended to history and observers see an after or
//     error notification. Failures are re-raised to the caller wrapped in
//     ExecutionError, never swallowed.
func (e *AgentExecutor) Execute(ctx context.Context, action string, exec *core.ExecutionContext) (any, error) {
	return e.execute(ctx, action, exec, "", nil)
}

func (e *AgentExecutor) execute(ctx context.Context, action string, exec *core.ExecutionContext, lastAction string, lastResult any) (any, error) {
	fn, ok := e.agent.Action(action)
	if !ok {
		return nil, fmt.Errorf("agent %s action %q: %w", e.agent.ID(), action, core.ErrActionNotImplemented)
	}
	if exec == nil {
		exec = core.NewExecutionContext(nil)
	}

	actx := &core.ActionContext{
		Context:     ctx,
		ExecutionID: util.NewExecutionID(),
		Timestamp:   time.Now(),
		Connector:   e.connector,
		Memory:      e.memory,
		Exec:        exec,
		Logger:      e.logger,
		LastAction:  lastAction,
		LastResult:  lastResult,
	}

	hctx := &HookContext{
		AgentID:     e.agent.ID(),
		Action:      action,
		ExecutionID: actx.ExecutionID,
		Exec:        exec,
	}
	e.hooks.notify(HookBeforeExecution, hctx)

	if e.limiter != nil {
		if err := e.limiter.Check(ctx, e.agent.ID()+":"+action); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	result, err := fn(actx)
	duration := time.Since(start)

	rec := Record{
		AgentID:     e.agent.ID(),
		Action:      action,
		ExecutionID: actx.ExecutionID,
		Timestamp:   actx.Timestamp,
		Duration:    duration,
		Success:     err == nil,
		Result:      result,
		Err:         err,
	}
	if err != nil {
		rec.Result = nil
	}
	e.appendRecord(rec)

	if err != nil {
		execErr := &core.ExecutionError{
			AgentID:  e.agent.ID(),
			Action:   action,
			Platform: e.platform(),
			Err:      err,
		}
		hctx.Err = execErr
		e.hooks.notify(HookExecutionError, hctx)
		e.logger.Error("agent action failed", "agent_id", e.agent.ID(), "action", action, "execution_id", actx.ExecutionID, "error", err)
		return nil, execErr
	}

	hctx.Result = result
	e.hooks.notify(HookAfterExecution, hctx)
	e.logger.Debug("agent action completed", "agent_id", e.agent.ID(), "action", action, "execution_id", actx.ExecutionID, "duration", duration)
	return result, nil
}

// ExecuteSequence runs the actions strictly in order, threading each result
// into the next call as LastAction/LastResult. It fails fast on the first
// error; results of the completed prefix are returned alongside the error.
func (e *AgentExecutor) ExecuteSequence(ctx context.Context, actions []string, exec *core.ExecutionContext) ([]any, error) {
	if exec == nil {
		exec = core.NewExecutionContext(nil)
	}
	results := make([]any, 0, len(actions))
	lastAction := ""
	var lastResult any
	for _, action := range actions {
		result, err := e.execute(ctx, action, exec, lastAction, lastResult)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		lastAction = action
		lastResult = result
	}
	return results, nil
}

// History returns the most recent limit records, most recent first.
// A non-positive limit returns the full history.
func (e *AgentExecutor) History(limit int) []Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.history)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Record, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, e.history[i])
	}
	return out
}

// ClearHistory empties the execution history.
func (e *AgentExecutor) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}

func (e *AgentExecutor) appendRecord(rec Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, rec)
}

func (e *AgentExecutor) platform() string {
	if e.connector != nil {
		return e.connector.Platform()
	}
	return ""
}
