package core

import "context"

// RateLimiter gates side-effecting calls against a per-key quota. Keys are
// caller-defined, typically "<agentID>:<action>" or "<platform>:<action>".
//
// Check consumes one unit of budget for key. Depending on the configured
// policy it either returns immediately, waits (bounded by the policy timeout
// and ctx) until budget replenishes, or fails with ErrRateLimited.
// Implementations must be safe for concurrent callers on the same key:
// consumption is atomic, with no lost updates under fan-out races.
type RateLimiter interface {
	Check(ctx context.Context, key string) error
}
