package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/logging"
)

// Policy selects the behavior of Check when a bucket is exhausted.
type Policy int

const (
	// PolicyBlock waits (bounded by WaitTimeout and the caller's context)
	// until budget replenishes. A timed-out wait fails with ErrRateLimited.
	PolicyBlock Policy = iota

	// PolicyReject fails immediately with ErrRateLimited when no budget is
	// available.
	PolicyReject
)

// ParsePolicy maps a config string to a Policy, defaulting to PolicyBlock
// for unknown values.
func ParsePolicy(s string) Policy {
	if s == "reject" {
		return PolicyReject
	}
	return PolicyBlock
}

// Limit describes the refill rate and burst capacity of one bucket.
// A zero Rate means the key is unlimited.
type Limit struct {
	Rate  float64 `yaml:"rate" json:"rate"`   // tokens per second
	Burst int     `yaml:"burst" json:"burst"` // bucket capacity
}

// Options configures a KeyedLimiter.
type Options struct {
	// Policy selects block-with-timeout vs immediate-reject on exhaustion.
	Policy Policy

	// WaitTimeout bounds how long PolicyBlock waits for budget. Zero means
	// the wait is bounded only by the caller's context.
	WaitTimeout time.Duration

	// Default is applied to keys with no explicit entry in Limits.
	Default Limit

	// Limits holds per-key overrides, keyed the same way Check is called
	// (e.g. "<agentID>:<action>" or "<platform>:<action>").
	Limits map[string]Limit

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// KeyedLimiter is a token-bucket core.RateLimiter with one lazily created
// bucket per key. Bucket creation and token consumption are safe for
// concurrent callers on the same key.
type KeyedLimiter struct {
	opts    Options
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

var _ core.RateLimiter = (*KeyedLimiter)(nil)

// New constructs a KeyedLimiter with optional overrides. The zero
// configuration is fully unlimited, which keeps the limiter safe to wire
// unconditionally.
func New(optFns ...func(o *Options)) *KeyedLimiter {
	opts := Options{
		Policy: PolicyBlock,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &KeyedLimiter{
		opts:    opts,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Check consumes one unit of budget for key according to the configured
// policy. It returns nil when the call may proceed and an error wrapping
// core.ErrRateLimited when the quota decision is negative.
func (l *KeyedLimiter) Check(ctx context.Context, key string) error {
	bucket := l.bucket(key)
	if bucket == nil { // unlimited key
		return nil
	}

	if l.opts.Policy == PolicyReject {
		if !bucket.Allow() {
			l.opts.Logger.Warn("rate limit exceeded", "key", key)
			return fmt.Errorf("%w: %s", core.ErrRateLimited, key)
		}
		return nil
	}

	waitCtx := ctx
	if l.opts.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.opts.WaitTimeout)
		defer cancel()
	}
	if err := bucket.Wait(waitCtx); err != nil {
		// Surface the caller's own cancellation as-is; everything else is a
		// quota decision.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.opts.Logger.Warn("rate limit wait timed out", "key", key)
		return fmt.Errorf("%w: %s: %v", core.ErrRateLimited, key, err)
	}
	return nil
}

// bucket returns the limiter for key, creating it on first use. A nil return
// means the key is unlimited.
func (l *KeyedLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	limit, ok := l.opts.Limits[key]
	if !ok {
		limit = l.opts.Default
	}
	if limit.Rate <= 0 {
		return nil
	}
	burst := limit.Burst
	if burst < 1 {
		burst = 1
	}
	b := rate.NewLimiter(rate.Limit(limit.Rate), burst)
	l.buckets[key] = b
	return b
}
