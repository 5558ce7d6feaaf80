// Package executor runs individual agent actions: it binds one agent
// identity to one connector instance, consults the rate limiter before every
// call, records a most-recent-first execution history and notifies lifecycle
// hooks around each invocation.
//
// Hooks are passive observers: they run synchronously in registration order,
// must not mutate the execution context, and cannot alter or abort the
// underlying action. A panicking hook is recovered and logged.
package executor
