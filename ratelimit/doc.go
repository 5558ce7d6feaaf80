// Package ratelimit contains the keyed quota gate consulted before every
// side-effecting agent or connector call. The core.RateLimiter contract lives
// in the core package; this package provides a token-bucket implementation
// built on golang.org/x/time/rate with per-key buckets and a configurable
// exhaustion policy (bounded wait vs immediate reject).
package ratelimit
