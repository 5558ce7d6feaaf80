package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/executor"
	"github.com/hupe1980/socialmesh/internal/util"
	"github.com/hupe1980/socialmesh/logging"
	"github.com/hupe1980/socialmesh/workflow"
)

// RunState is the terminal state of a workflow run.
type RunState string

const (
	// RunCompleted means every step ran without abort or failure.
	RunCompleted RunState = "completed"

	// RunAborted means a step condition evaluated false; remaining steps
	// were skipped and the partial context was returned without error.
	RunAborted RunState = "aborted"

	// RunFailed means a step's action returned an error.
	RunFailed RunState = "failed"
)

// RunResult is the outcome of one workflow run. Context carries the values
// and per-step results accumulated up to the point the run ended.
type RunResult struct {
	Workflow string
	State    RunState
	Context  *core.ExecutionContext
}

// Options configures an Orchestrator.
type Options struct {
	// Memory receives memorized step results. Nil disables memorization;
	// steps flagged Memorize then only write into the run context.
	Memory core.MemoryStore

	// ChainAction is the fixed action name used by ChainAgents steps.
	// Defaults to "generate".
	ChainAction string

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Orchestrator owns the workflow registry and one executor per registered
// agent. Workflow runs are strictly sequential within themselves; distinct
// runs (including scheduled ones firing) may overlap freely.
type Orchestrator struct {
	workflows   *workflow.Registry
	memory      core.MemoryStore
	chainAction string
	logger      logging.Logger

	mu        sync.RWMutex
	executors map[string]*executor.AgentExecutor

	schedMu   sync.Mutex
	scheduled map[string]*ScheduledExecution
}

// New creates an orchestrator around a workflow registry.
func New(workflows *workflow.Registry, optFns ...func(o *Options)) *Orchestrator {
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
	if opts.ChainAction == "" {
		opts.ChainAction = "generate"
	}

	return &Orchestrator{
		workflows:   workflows,
		memory:      opts.Memory,
		chainAction: opts.ChainAction,
		logger:      opts.Logger,
		executors:   make(map[string]*executor.AgentExecutor),
		scheduled:   make(map[string]*ScheduledExecution),
	}
}

// Workflows returns the owned workflow registry.
func (o *Orchestrator) Workflows() *workflow.Registry { return o.workflows }

// RegisterAgent makes an agent's executor available to workflow steps,
// keyed by the agent's ID. It fails with ErrAlreadyExists when the ID is
// taken.
func (o *Orchestrator) RegisterAgent(ex *executor.AgentExecutor) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := ex.Agent().ID()
	if _, ok := o.executors[id]; ok {
		return fmt.Errorf("agent %q: %w", id, core.ErrAlreadyExists)
	}
	o.executors[id] = ex
	return nil
}

// Executor returns the executor registered for an agent ID.
func (o *Orchestrator) Executor(agentID string) (*executor.AgentExecutor, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ex, ok := o.executors[agentID]
	return ex, ok
}

// ExecuteWorkflow resolves the named workflow and runs its steps in order,
// threading exec (a fresh context when nil) through every step. Each step's
// result is written into the context under the step ID before its condition
// is evaluated; a false condition aborts the run, returning the partial
// context without error. A step error fails the run immediately and is
// propagated; results memorized by earlier steps stay persisted.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, name string, exec *core.ExecutionContext) (*RunResult, error) {
	def, ok := o.workflows.Get(name)
	if !ok {
		return nil, fmt.Errorf("workflow %q: %w", name, core.ErrNotFound)
	}
	if exec == nil {
		exec = core.NewExecutionContext(nil)
	}

	o.logger.Info("workflow run started", "workflow", name, "steps", len(def.Steps))

	for _, step := range def.Steps {
		ex, ok := o.Executor(step.AgentID)
		if !ok {
			return nil, fmt.Errorf("agent %q: %w", step.AgentID, core.ErrNotFound)
		}

		result, err := ex.Execute(ctx, step.Action, exec)
		if err != nil {
			o.logger.Error("workflow step failed", "workflow", name, "step", step.ID, "error", err)
			return nil, fmt.Errorf("workflow %q step %q: %w", name, step.ID, err)
		}
		exec.SetResult(step.ID, result)

		if step.Condition != nil && !step.Condition(result, exec) {
			o.logger.Info("workflow run aborted", "workflow", name, "step", step.ID)
			return &RunResult{Workflow: name, State: RunAborted, Context: exec}, nil
		}

		if step.Memorize {
			if err := o.memorize(ctx, name, step.ID, result); err != nil {
				return nil, fmt.Errorf("workflow %q step %q: memorize: %w", name, step.ID, err)
			}
		}
	}

	o.logger.Info("workflow run completed", "workflow", name)
	return &RunResult{Workflow: name, State: RunCompleted, Context: exec}, nil
}

func (o *Orchestrator) memorize(ctx context.Context, workflowName, stepID string, result any) error {
	if o.memory == nil {
		return nil
	}
	key := fmt.Sprintf("workflow:%s:%s", workflowName, stepID)
	_, err := o.memory.Store(ctx, key, result, map[string]any{
		"workflow": workflowName,
		"step":     stepID,
	})
	return err
}

// ChainAgents registers a synthetic workflow with one step per agent ID, in
// the given order, all invoking the chain action with memorization enabled.
// Every agent must already be registered. The generated workflow name is
// returned.
func (o *Orchestrator) ChainAgents(agentIDs []string) (string, error) {
	if len(agentIDs) == 0 {
		return "", fmt.Errorf("chain needs at least one agent: %w", core.ErrInvalidArgument)
	}
	for _, id := range agentIDs {
		if _, ok := o.Executor(id); !ok {
			return "", fmt.Errorf("agent %q: %w", id, core.ErrNotFound)
		}
	}

	steps := make([]workflow.Step, 0, len(agentIDs))
	for i, id := range agentIDs {
		steps = append(steps, workflow.Step{
			ID:       fmt.Sprintf("step-%d-%s", i+1, id),
			AgentID:  id,
			Action:   o.chainAction,
			Memorize: true,
		})
	}

	name := "chain-" + util.NewID()
	if err := o.workflows.Register(name, steps); err != nil {
		return "", err
	}
	return name, nil
}
