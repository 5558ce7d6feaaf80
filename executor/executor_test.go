package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/socialmesh/agent"
	"github.com/hupe1980/socialmesh/connector"
	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/ratelimit"
)

var errActionBoom = errors.New("action boom")

// newSpeakAgent returns an agent with a "speak" action and a "fail" action.
func newSpeakAgent(t *testing.T) *agent.BaseAgent {
	t.Helper()
	a := agent.NewBaseAgent("a1", "twitter")
	require.NoError(t, a.RegisterAction("speak", func(actx *core.ActionContext) (any, error) {
		return "hi", nil
	}))
	require.NoError(t, a.RegisterAction("fail", func(actx *core.ActionContext) (any, error) {
		return nil, errActionBoom
	}))
	return a
}

func TestExecutor_ExecuteSuccess(t *testing.T) {
	exec, err := New(newSpeakAgent(t))
	require.NoError(t, err)

	result, err := exec.Execute(context.Background(), "speak", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", result)

	history := exec.History(0)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, "hi", history[0].Result)
	assert.Equal(t, "a1", history[0].AgentID)
	assert.NotEmpty(t, history[0].ExecutionID)
}

func TestExecutor_ExecutionIDsUnique(t *testing.T) {
	exec, err := New(newSpeakAgent(t))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := exec.Execute(ctx, "speak", nil)
		require.NoError(t, err)
	}
	seen := make(map[string]bool)
	for _, rec := range exec.History(0) {
		assert.False(t, seen[rec.ExecutionID], "duplicate execution id %s", rec.ExecutionID)
		seen[rec.ExecutionID] = true
	}
}

func TestExecutor_MissingActionFailsWithoutSideEffects(t *testing.T) {
	var beforeCalls int
	exec, err := New(newSpeakAgent(t), func(o *Options) {
		o.Hooks = []Hook{NewFunctionHook(HookBeforeExecution, func(*HookContext) { beforeCalls++ })}
	})
	require.NoError(t, err)

	_, err = exec.Execute(context.Background(), "fly", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrActionNotImplemented))

	assert.Empty(t, exec.History(0))
	assert.Equal(t, 0, beforeCalls)
}

func TestExecutor_FailureRecordedAndReRaised(t *testing.T) {
	exec, err := New(newSpeakAgent(t))
	require.NoError(t, err)

	_, err = exec.Execute(context.Background(), "fail", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errActionBoom))

	var execErr *core.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "a1", execErr.AgentID)
	assert.Equal(t, "fail", execErr.Action)

	history := exec.History(0)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Nil(t, history[0].Result)
	assert.Error(t, history[0].Err)
}

func TestExecutor_HooksFireInOrder(t *testing.T) {
	var events []string
	hooks := []Hook{
		NewFunctionHook(HookBeforeExecution, func(h *HookContext) { events = append(events, "before:"+h.Action) }),
		NewFunctionHook(HookAfterExecution, func(h *HookContext) { events = append(events, "after:"+h.Action) }),
		NewFunctionHook(HookExecutionError, func(h *HookContext) { events = append(events, "error:"+h.Action) }),
	}
	exec, err := New(newSpeakAgent(t), func(o *Options) { o.Hooks = hooks })
	require.NoError(t, err)

	_, err = exec.Execute(context.Background(), "speak", nil)
	require.NoError(t, err)
	_, _ = exec.Execute(context.Background(), "fail", nil)

	assert.Equal(t, []string{"before:speak", "after:speak", "before:fail", "error:fail"}, events)
}

func TestExecutor_PanickingHookDoesNotAbort(t *testing.T) {
	exec, err := New(newSpeakAgent(t), func(o *Options) {
		o.Hooks = []Hook{NewFunctionHook(HookBeforeExecution, func(*HookContext) { panic("observer bug") })}
	})
	require.NoError(t, err)

	result, err := exec.Execute(context.Background(), "speak", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestExecutor_RateLimiterConsulted(t *testing.T) {
	limiter := ratelimit.New(func(o *ratelimit.Options) {
		o.Policy = ratelimit.PolicyReject
		o.Limits = map[string]ratelimit.Limit{
			"a1:speak": {Rate: 0.001, Burst: 1},
		}
	})
	exec, err := New(newSpeakAgent(t), func(o *Options) { o.Limiter = limiter })
	require.NoError(t, err)

	ctx := context.Background()
	_, err = exec.Execute(ctx, "speak", nil)
	require.NoError(t, err)

	_, err = exec.Execute(ctx, "speak", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRateLimited))

	// The rejected call never ran: only one history record exists.
	assert.Len(t, exec.History(0), 1)
}

func TestExecutor_ExecuteSequenceThreadsResults(t *testing.T) {
	a := agent.NewBaseAgent("a1", "twitter")
	require.NoError(t, a.RegisterAction("first", func(actx *core.ActionContext) (any, error) {
		return "one", nil
	}))
	require.NoError(t, a.RegisterAction("second", func(actx *core.ActionContext) (any, error) {
		assert.Equal(t, "first", actx.LastAction)
		assert.Equal(t, "one", actx.LastResult)
		return "two", nil
	}))

	exec, err := New(a)
	require.NoError(t, err)

	results, err := exec.ExecuteSequence(context.Background(), []string{"first", "second"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"one", "two"}, results)
}

func TestExecutor_ExecuteSequenceFailsFast(t *testing.T) {
	exec, err := New(newSpeakAgent(t))
	require.NoError(t, err)

	results, err := exec.ExecuteSequence(context.Background(), []string{"speak", "fail", "speak"}, nil)
	require.Error(t, err)
	assert.Equal(t, []any{"hi"}, results)

	// History holds the success and the failure, nothing for the third action.
	assert.Len(t, exec.History(0), 2)
}

func TestExecutor_HistoryViewAndClear(t *testing.T) {
	exec, err := New(newSpeakAgent(t))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := exec.Execute(ctx, "speak", nil)
		require.NoError(t, err)
	}

	limited := exec.History(2)
	require.Len(t, limited, 2)
	full := exec.History(0)
	require.Len(t, full, 5)
	// most recent first
	assert.Equal(t, full[0].ExecutionID, limited[0].ExecutionID)
	assert.True(t, full[0].Timestamp.After(full[4].Timestamp) || full[0].Timestamp.Equal(full[4].Timestamp))

	exec.ClearHistory()
	assert.Empty(t, exec.History(0))
}

func TestExecutor_ConnectorFromRegistry(t *testing.T) {
	registry := connector.NewRegistry()
	exec, err := New(newSpeakAgent(t), func(o *Options) { o.Registry = registry })
	require.NoError(t, err)

	conn := exec.Connector()
	require.NotNil(t, conn)
	assert.Equal(t, "twitter", conn.Platform())
}

func TestExecutor_ActionSeesConnectorAndMemory(t *testing.T) {
	registry := connector.NewRegistry()
	a := agent.NewBaseAgent("a1", "twitter")
	require.NoError(t, a.RegisterAction("inspect", func(actx *core.ActionContext) (any, error) {
		require.NotNil(t, actx.Connector)
		assert.Equal(t, "twitter", actx.Connector.Platform())
		assert.NotEmpty(t, actx.ExecutionID)
		assert.False(t, actx.Timestamp.IsZero())
		return nil, nil
	}))

	exec, err := New(a, func(o *Options) { o.Registry = registry })
	require.NoError(t, err)
	_, err = exec.Execute(context.Background(), "inspect", nil)
	require.NoError(t, err)
}
