package executor

import (
	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/logging"
)

// HookType identifies the lifecycle point a hook observes.
type HookType string

const (
	// HookBeforeExecution fires after the call bindings are resolved and
	// before the rate limiter is consulted.
	HookBeforeExecution HookType = "before_execution"

	// HookAfterExecution fires after a successful action, with the result.
	HookAfterExecution HookType = "after_execution"

	// HookExecutionError fires after a failed action, with the error.
	HookExecutionError HookType = "execution_error"
)

// HookContext carries the observation payload. Observers must treat every
// field as read-only; Exec in particular is the live execution context and
// mutating it from a hook is undefined behavior.
type HookContext struct {
	AgentID     string
	Action      string
	ExecutionID string
	Exec        *core.ExecutionContext
	Result      any
	Err         error
}

// Hook observes one lifecycle point. Observe returns nothing: hooks cannot
// influence execution, and a panic inside Observe is recovered and logged
// rather than aborting the action.
type Hook interface {
	Type() HookType
	Observe(hctx *HookContext)
}

// FunctionHook wraps a plain function as a Hook.
type FunctionHook struct {
	hookType HookType
	fn       func(hctx *HookContext)
}

// NewFunctionHook creates a function-based hook for the given lifecycle point.
func NewFunctionHook(hookType HookType, fn func(hctx *HookContext)) *FunctionHook {
	return &FunctionHook{hookType: hookType, fn: fn}
}

// Type returns the lifecycle point this hook observes.
func (h *FunctionHook) Type() HookType { return h.hookType }

// Observe calls the wrapped function.
func (h *FunctionHook) Observe(hctx *HookContext) { h.fn(hctx) }

// NewLoggingHook returns a hook that logs each observation through logger.
func NewLoggingHook(hookType HookType, logger logging.Logger) *FunctionHook {
	return NewFunctionHook(hookType, func(hctx *HookContext) {
		if hctx.Err != nil {
			logger.Error("agent execution observed", "hook", string(hookType), "agent_id", hctx.AgentID, "action", hctx.Action, "execution_id", hctx.ExecutionID, "error", hctx.Err)
			return
		}
		logger.Info("agent execution observed", "hook", string(hookType), "agent_id", hctx.AgentID, "action", hctx.Action, "execution_id", hctx.ExecutionID)
	})
}

// hookManager dispatches observations to registered hooks in registration
// order. Registration is not safe for concurrent use; finish wiring before
// executing. Dispatch is safe for concurrent use once wired.
type hookManager struct {
	hooks  map[HookType][]Hook
	logger logging.Logger
}

func newHookManager(logger logging.Logger) *hookManager {
	return &hookManager{hooks: make(map[HookType][]Hook), logger: logger}
}

func (m *hookManager) register(h Hook) {
	m.hooks[h.Type()] = append(m.hooks[h.Type()], h)
}

// notify invokes all hooks for the lifecycle point. Observer panics are
// contained here so they can never abort the underlying action.
func (m *hookManager) notify(hookType HookType, hctx *HookContext) {
	for _, h := range m.hooks[hookType] {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("hook panicked", "hook", string(hookType), "agent_id", hctx.AgentID, "action", hctx.Action, "panic", r)
				}
			}()
			h.Observe(hctx)
		}()
	}
}
