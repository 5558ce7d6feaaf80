package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/internal/util"
)

// ScheduledExecution is the handle for a deferred workflow run. Cancel
// before the timer fires guarantees the workflow never runs; once firing
// has started, Cancel has no effect. Done is closed when the run finishes
// or the schedule is cancelled, after which Result reports the outcome.
type ScheduledExecution struct {
	id            string
	WorkflowName  string
	ScheduledTime time.Time

	timer *time.Timer

	// onCancel drops the handle from the orchestrator's tracking map. Set
	// once before the handle escapes, invoked outside the handle's mutex.
	onCancel func()

	mu        sync.Mutex
	fired     bool
	cancelled bool
	result    *RunResult
	err       error
	done      chan struct{}
}

// Cancel stops a pending schedule and drops it from the orchestrator's
// tracking. It reports whether the cancellation won: false means the run has
// already started (or finished), or was cancelled before.
func (s *ScheduledExecution) Cancel() bool {
	s.mu.Lock()
	if s.fired || s.cancelled {
		s.mu.Unlock()
		return false
	}
	s.cancelled = true
	if s.timer != nil {
		s.timer.Stop()
	}
	close(s.done)
	s.mu.Unlock()

	if s.onCancel != nil {
		s.onCancel()
	}
	return true
}

// Cancelled reports whether the schedule was cancelled before firing.
func (s *ScheduledExecution) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Done is closed once the run has finished or the schedule was cancelled.
func (s *ScheduledExecution) Done() <-chan struct{} { return s.done }

// Result returns the run outcome. It is only meaningful after Done is
// closed; a cancelled schedule reports (nil, nil).
func (s *ScheduledExecution) Result() (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

// ScheduleWorkflow defers a workflow run until at. When at is the zero time
// or not in the future, the run happens immediately and synchronously; the
// returned handle is already done and the run's error (if any) is returned
// alongside it. Otherwise a timer is registered and the handle can cancel
// the run until it fires. Deferred runs execute against
// context.Background(), since the caller's context may be gone by then.
func (o *Orchestrator) ScheduleWorkflow(ctx context.Context, name string, exec *core.ExecutionContext, at time.Time) (*ScheduledExecution, error) {
	s := &ScheduledExecution{
		id:            util.NewID(),
		WorkflowName:  name,
		ScheduledTime: at,
		done:          make(chan struct{}),
	}

	delay := time.Until(at)
	if at.IsZero() || delay <= 0 {
		result, err := o.ExecuteWorkflow(ctx, name, exec)
		s.mu.Lock()
		s.fired = true
		s.result, s.err = result, err
		close(s.done)
		s.mu.Unlock()
		return s, err
	}

	s.onCancel = func() {
		o.schedMu.Lock()
		delete(o.scheduled, s.id)
		o.schedMu.Unlock()
	}

	o.schedMu.Lock()
	o.scheduled[s.id] = s
	o.schedMu.Unlock()

	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.cancelled {
			s.mu.Unlock()
			return
		}
		s.fired = true
		s.mu.Unlock()

		result, err := o.ExecuteWorkflow(context.Background(), name, exec)
		if err != nil {
			o.logger.Error("scheduled workflow failed", "workflow", name, "error", err)
		}

		s.mu.Lock()
		s.result, s.err = result, err
		close(s.done)
		s.mu.Unlock()

		o.schedMu.Lock()
		delete(o.scheduled, s.id)
		o.schedMu.Unlock()
	})

	o.logger.Info("workflow scheduled", "workflow", name, "at", at)
	return s, nil
}

// ListScheduled returns the handles of all schedules that have neither
// fired nor been cancelled yet.
func (o *Orchestrator) ListScheduled() []*ScheduledExecution {
	o.schedMu.Lock()
	defer o.schedMu.Unlock()

	pending := make([]*ScheduledExecution, 0, len(o.scheduled))
	for _, s := range o.scheduled {
		s.mu.Lock()
		if !s.fired && !s.cancelled {
			pending = append(pending, s)
		}
		s.mu.Unlock()
	}
	return pending
}

// CancelAll cancels every pending schedule and returns how many were
// stopped before firing.
func (o *Orchestrator) CancelAll() int {
	cancelled := 0
	for _, s := range o.ListScheduled() {
		if s.Cancel() {
			cancelled++
		}
	}
	return cancelled
}
