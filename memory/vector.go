package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/logging"
)

// indexEntry pairs a key with its embedding inside one index snapshot.
type indexEntry struct {
	key      string
	vector   []float64
	metadata map[string]any
	stored   time.Time
}

// vectorIndex is an immutable similarity-index snapshot. Mutations build a
// new snapshot and swap the pointer, so readers always observe either the
// pre- or post-mutation index, never a partially rebuilt one.
type vectorIndex struct {
	entries []indexEntry
}

// VectorStore decorates a base core.MemoryStore with embedding-based
// similarity search. Records flow through to the base store (which may be
// durable, e.g. Redis) with their embedding attached; the similarity index
// itself is kept in-process and swapped atomically on every mutation.
type VectorStore struct {
	base     core.MemoryStore
	embedder Embedder
	logger   logging.Logger
	now      func() time.Time

	mu  sync.Mutex // serializes index rebuilds; reads go through idx only
	idx atomic.Pointer[vectorIndex]
}

var _ core.VectorMemoryStore = (*VectorStore)(nil)

// VectorStoreOptions configures a VectorStore.
type VectorStoreOptions struct {
	// Embedder converts record data and queries into vectors. Defaults to a
	// 256-dimensional HashEmbedder.
	Embedder Embedder

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// NewVectorStore wraps base with similarity search capability.
func NewVectorStore(base core.MemoryStore, optFns ...func(o *VectorStoreOptions)) *VectorStore {
	opts := VectorStoreOptions{
		Embedder: NewHashEmbedder(256),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Embedder == nil {
		opts.Embedder = NewHashEmbedder(256)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	s := &VectorStore{
		base:     base,
		embedder: opts.Embedder,
		logger:   opts.Logger,
		now:      time.Now,
	}
	s.idx.Store(&vectorIndex{})
	return s
}

// Store persists the record through the base store with an embedding of its
// textual form attached, then swaps in an updated index snapshot.
func (s *VectorStore) Store(ctx context.Context, key string, data any, metadata map[string]any) (*core.MemoryRecord, error) {
	vec, err := s.embedder.Embed(ctx, textOf(data))
	if err != nil {
		return nil, fmt.Errorf("failed to embed data for %q: %w", key, err)
	}
	rec, err := s.base.Store(ctx, key, data, metadata)
	if err != nil {
		return nil, err
	}
	rec.Embedding = vec
	s.swapIndex(func(entries []indexEntry) []indexEntry {
		entries = removeEntry(entries, key)
		return append(entries, indexEntry{key: key, vector: vec, metadata: cloneMetadata(metadata), stored: rec.Timestamp})
	})
	return rec, nil
}

// Retrieve delegates to the base store.
func (s *VectorStore) Retrieve(ctx context.Context, key string) (*core.MemoryRecord, error) {
	return s.base.Retrieve(ctx, key)
}

// Update re-embeds the new data, delegates the version bump to the base
// store and refreshes the index entry.
func (s *VectorStore) Update(ctx context.Context, key string, data any, metadata map[string]any) (*core.MemoryRecord, error) {
	vec, err := s.embedder.Embed(ctx, textOf(data))
	if err != nil {
		return nil, fmt.Errorf("failed to embed data for %q: %w", key, err)
	}
	rec, err := s.base.Update(ctx, key, data, metadata)
	if err != nil {
		return nil, err
	}
	rec.Embedding = vec
	s.swapIndex(func(entries []indexEntry) []indexEntry {
		entries = removeEntry(entries, key)
		return append(entries, indexEntry{key: key, vector: vec, metadata: cloneMetadata(metadata), stored: rec.Timestamp})
	})
	return rec, nil
}

// Delete removes the record from the base store and atomically swaps in an
// index snapshot without the key. Concurrent searches observe either the
// full pre-delete index or the post-delete one.
func (s *VectorStore) Delete(ctx context.Context, key string) error {
	if err := s.base.Delete(ctx, key); err != nil {
		return err
	}
	s.swapIndex(func(entries []indexEntry) []indexEntry {
		return removeEntry(entries, key)
	})
	return nil
}

// List delegates to the base store.
func (s *VectorStore) List(ctx context.Context, prefix string, limit int) ([]*core.MemoryRecord, error) {
	return s.base.List(ctx, prefix, limit)
}

// SimilaritySearch embeds the query and ranks indexed records by cosine
// similarity, best first, honoring metadata equality filters.
func (s *VectorStore) SimilaritySearch(ctx context.Context, query string, k int, filters map[string]any) ([]core.ScoredRecord, error) {
	if k <= 0 {
		return []core.ScoredRecord{}, nil
	}
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	idx := s.idx.Load()
	type scoredKey struct {
		key   string
		score float64
	}
	scored := make([]scoredKey, 0, len(idx.entries))
	for _, ent := range idx.entries {
		if !matchesFilters(ent.metadata, filters) {
			continue
		}
		scored = append(scored, scoredKey{key: ent.key, score: cosineSimilarity(queryVec, ent.vector)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if k < len(scored) {
		scored = scored[:k]
	}

	results := make([]core.ScoredRecord, 0, len(scored))
	for _, sk := range scored {
		rec, err := s.base.Retrieve(ctx, sk.key)
		if err != nil {
			// Index can briefly lead the base store across concurrent runs;
			// a missing record is skipped rather than failing the search.
			s.logger.Debug("indexed record missing from base store", "key", sk.key)
			continue
		}
		results = append(results, core.ScoredRecord{Record: rec, Score: sk.score})
	}
	return results, nil
}

// GetContextualMemories recalls records relevant to a situation and annotates
// each with its relevance score and age at recall time.
func (s *VectorStore) GetContextualMemories(ctx context.Context, situation string, maxResults int, filters map[string]any) ([]core.ContextualMemory, error) {
	scored, err := s.SimilaritySearch(ctx, situation, maxResults, filters)
	if err != nil {
		return nil, err
	}
	now := s.now()
	memories := make([]core.ContextualMemory, 0, len(scored))
	for _, sr := range scored {
		memories = append(memories, core.ContextualMemory{
			Record:    sr.Record,
			Relevance: sr.Score,
			Age:       now.Sub(sr.Record.Timestamp),
		})
	}
	return memories, nil
}

// swapIndex applies mutate to a copy of the current index entries and
// publishes the result as a new snapshot.
func (s *VectorStore) swapIndex(mutate func(entries []indexEntry) []indexEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.idx.Load()
	next := make([]indexEntry, len(cur.entries))
	copy(next, cur.entries)
	s.idx.Store(&vectorIndex{entries: mutate(next)})
}

func removeEntry(entries []indexEntry, key string) []indexEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.key != key {
			out = append(out, e)
		}
	}
	return out
}

// matchesFilters reports whether every filter entry equals the record's
// metadata value. DeepEqual keeps uncomparable filter values (slices, maps)
// from panicking.
func matchesFilters(metadata, filters map[string]any) bool {
	for k, want := range filters {
		got, ok := metadata[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// textOf renders record data into the text fed to the embedder.
func textOf(data any) string {
	if s, ok := data.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", data)
}
