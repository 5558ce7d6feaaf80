package core

import (
	"context"
	"time"
)

// MemoryRecord is a single durable memory entry owned by a MemoryStore.
// Version starts at 1 on Store and increments on every Update of the same
// key. Embedding is populated only by vector-capable stores.
type MemoryRecord struct {
	Key       string         `json:"key"`
	Data      any            `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Version   int            `json:"version"`
	Embedding []float64      `json:"embedding,omitempty"`
}

// ScoredRecord pairs a memory record with a similarity score in [0, 1].
type ScoredRecord struct {
	Record *MemoryRecord `json:"record"`
	Score  float64       `json:"score"`
}

// ContextualMemory annotates a recalled record with its relevance to the
// queried situation and its age at recall time.
type ContextualMemory struct {
	Record    *MemoryRecord `json:"record"`
	Relevance float64       `json:"relevance"`
	Age       time.Duration `json:"age"`
}

// MemoryStore defines keyed persistence for contextual state shared by the
// orchestrator and agents. Implementations can back storage with a remote
// service or a process-local map; the choice is made once at initialization
// and operational failures afterwards propagate to the caller.
//
// Short method names align with the other *Store interfaces.
type MemoryStore interface {
	// Store creates a record under key with version 1, replacing any
	// existing record.
	Store(ctx context.Context, key string, data any, metadata map[string]any) (*MemoryRecord, error)

	// Retrieve returns the record for key or ErrNotFound.
	Retrieve(ctx context.Context, key string) (*MemoryRecord, error)

	// Update bumps the version of an existing record, or creates it with
	// version 1 when absent.
	Update(ctx context.Context, key string, data any, metadata map[string]any) (*MemoryRecord, error)

	// Delete removes the record for key, including any similarity-index
	// entry. Deleting an absent key returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// List returns records whose key starts with prefix, most recent first,
	// up to limit (0 means no limit). An empty prefix matches everything.
	List(ctx context.Context, prefix string, limit int) ([]*MemoryRecord, error)
}

// VectorMemoryStore extends MemoryStore with nearest-neighbor recall over
// record embeddings. Stores without vector support degrade by returning
// empty result sets from both query methods.
type VectorMemoryStore interface {
	MemoryStore

	// SimilaritySearch returns the k records nearest to the query text,
	// ranked by descending similarity. Filters restrict candidates by
	// metadata equality.
	SimilaritySearch(ctx context.Context, query string, k int, filters map[string]any) ([]ScoredRecord, error)

	// GetContextualMemories recalls records relevant to a situation,
	// annotated with relevance and age.
	GetContextualMemories(ctx context.Context, situation string, maxResults int, filters map[string]any) ([]ContextualMemory, error)
}
