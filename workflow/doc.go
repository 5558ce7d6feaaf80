// Package workflow holds named, ordered step lists (workflow definitions)
// and the registry managing them: create, read, update, delete, cloning and
// composition of workflows from existing ones. Execution of definitions is
// the orchestrator package's concern.
package workflow
