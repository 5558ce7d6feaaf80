package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/socialmesh/core"
)

// Interface compliance (compile-time assertions)
var _ core.MemoryStore = (*InMemory)(nil)

func TestInMemory_StoreAndRetrieve(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	rec, err := store.Store(ctx, "k1", "hello", map[string]any{"topic": "greeting"})
	require.NoError(t, err)
	assert.Equal(t, "k1", rec.Key)
	assert.Equal(t, 1, rec.Version)
	assert.False(t, rec.Timestamp.IsZero())

	got, err := store.Retrieve(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Data)
	assert.Equal(t, "greeting", got.Metadata["topic"])

	// mutation safety (returned record carries copied metadata)
	got.Metadata["topic"] = "changed"
	again, _ := store.Retrieve(ctx, "k1")
	assert.Equal(t, "greeting", again.Metadata["topic"])
}

func TestInMemory_RetrieveAbsent(t *testing.T) {
	store := NewInMemory()
	_, err := store.Retrieve(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestInMemory_UpdateBumpsVersion(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	// Update on an absent key creates version 1.
	rec, err := store.Update(ctx, "k1", "v1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Version)

	rec, err = store.Update(ctx, "k1", "v2", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)
	assert.Equal(t, "v2", rec.Data)

	// Store resets the version.
	rec, err = store.Store(ctx, "k1", "v3", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Version)
}

func TestInMemory_Delete(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	_, err := store.Store(ctx, "k1", "v", nil)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "k1"))

	_, err = store.Retrieve(ctx, "k1")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	err = store.Delete(ctx, "k1")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestInMemory_ListPrefixAndOrder(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { ts = ts.Add(time.Second); return ts }

	for _, key := range []string{"workflow:greet:s1", "workflow:greet:s2", "agent:a1:mood"} {
		_, err := store.Store(ctx, key, key, nil)
		require.NoError(t, err)
	}

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// most recent first
	assert.Equal(t, "agent:a1:mood", all[0].Key)

	scoped, err := store.List(ctx, "workflow:greet:", 0)
	require.NoError(t, err)
	assert.Len(t, scoped, 2)
	assert.Equal(t, "workflow:greet:s2", scoped[0].Key)

	limited, err := store.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestInMemory_ConcurrentAccess(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k" + string(rune('A'+(i%5)))
			if _, err := store.Update(ctx, key, i, nil); err != nil {
				t.Errorf("update error: %v", err)
			}
			if _, err := store.List(ctx, "", 0); err != nil {
				t.Errorf("list error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
