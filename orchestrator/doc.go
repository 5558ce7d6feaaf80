// Package orchestrator drives workflow runs. It resolves a workflow
// definition by name, executes its steps strictly in order through the
// registered agents' executors, threads one execution context across the
// steps, and persists flagged step results to the memory store.
//
// A run ends in one of three states: Completed (all steps ran), Aborted (a
// step condition evaluated false; the partial context is returned as a
// normal value), or Failed (a step's action returned an error, which is
// propagated).
//
// Runs can also be deferred: ScheduleWorkflow registers a timer that fires
// the run at a given time and returns a handle that can cancel it before it
// fires.
package orchestrator
