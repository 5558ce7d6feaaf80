package memory

import (
	"context"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/logging"
)

// Options configures the New factory.
type Options struct {
	// RedisAddr is the preferred durable backing. Empty skips Redis and
	// selects the process-local fallback directly.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Embedder powers similarity search on the vector-capable path.
	// Defaults to a HashEmbedder.
	Embedder Embedder

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// New selects the memory backing exactly once, at initialization.
//
// A reachable Redis yields a vector-capable store over a durable backing.
// When Redis is configured but unreachable, the store falls back to a
// process-local map with reduced capability: similarity search is
// unsupported and returns empty result sets. The decision is never revisited
// mid-operation; later backing failures propagate to callers.
func New(ctx context.Context, optFns ...func(o *Options)) core.VectorMemoryStore {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.RedisAddr != "" {
		backing, err := NewRedis(ctx, func(o *RedisOptions) {
			o.Addr = opts.RedisAddr
			o.Password = opts.RedisPassword
			o.DB = opts.RedisDB
			o.Logger = opts.Logger
		})
		if err == nil {
			opts.Logger.Info("memory store using redis backing", "addr", opts.RedisAddr)
			return NewVectorStore(backing, func(o *VectorStoreOptions) {
				o.Embedder = opts.Embedder
				o.Logger = opts.Logger
			})
		}
		opts.Logger.Warn("redis unreachable, falling back to in-process memory store", "addr", opts.RedisAddr, "error", err)
		return NewNoVector(NewInMemory())
	}

	return NewVectorStore(NewInMemory(), func(o *VectorStoreOptions) {
		o.Embedder = opts.Embedder
		o.Logger = opts.Logger
	})
}

// NoVector adapts a plain core.MemoryStore to the vector-capable interface
// with similarity search unsupported: both query methods return empty result
// sets without error. Used on the degraded fallback path.
type NoVector struct {
	core.MemoryStore
}

var _ core.VectorMemoryStore = (*NoVector)(nil)

// NewNoVector wraps base without similarity support.
func NewNoVector(base core.MemoryStore) *NoVector { return &NoVector{MemoryStore: base} }

// SimilaritySearch reports no matches; the backing has no similarity index.
func (n *NoVector) SimilaritySearch(context.Context, string, int, map[string]any) ([]core.ScoredRecord, error) {
	return []core.ScoredRecord{}, nil
}

// GetContextualMemories reports no matches; the backing has no similarity index.
func (n *NoVector) GetContextualMemories(context.Context, string, int, map[string]any) ([]core.ContextualMemory, error) {
	return []core.ContextualMemory{}, nil
}
