package connector

import (
	"fmt"
	"sync"

	"github.com/hupe1980/socialmesh/core"
)

// Base bundles the shared connection-state handling every connector needs:
// a platform identifier, a connected flag and the guard that fails content
// and data operations with ErrNotConnected before any network I/O is
// attempted. Embed it in concrete connector implementations.
//
// All exported methods are goroutine-safe.
type Base struct {
	platform string
	mu       sync.Mutex
	conn     bool
}

// NewBase constructs a Base for the given platform identifier.
func NewBase(platform string) Base {
	return Base{platform: platform}
}

// Platform returns the platform identifier this connector serves.
func (b *Base) Platform() string { return b.platform }

// Connected reports whether the connector holds a live session.
func (b *Base) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn
}

// markConnected flips the connected flag on. It returns false when the
// connector was already connected, letting Connect stay idempotent.
func (b *Base) markConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn {
		return false
	}
	b.conn = true
	return true
}

// markDisconnected flips the connected flag off.
func (b *Base) markDisconnected() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conn = false
}

// requireConnected fails with ErrNotConnected when no session is live.
// Call it at the top of every content or data operation.
func (b *Base) requireConnected() error {
	if !b.Connected() {
		return fmt.Errorf("platform %s: %w", b.platform, core.ErrNotConnected)
	}
	return nil
}
