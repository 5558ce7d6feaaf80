package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/socialmesh/core"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	steps := []Step{
		{ID: "s1", AgentID: "writer", Action: "generate"},
		{ID: "s2", AgentID: "writer", Action: "analyze"},
	}
	require.NoError(t, reg.Register("daily", steps))

	def, ok := reg.Get("daily")
	require.True(t, ok)
	assert.Equal(t, "daily", def.Name)
	assert.Len(t, def.Steps, 2)
	assert.False(t, def.CreatedAt.IsZero())
	assert.True(t, def.UpdatedAt.IsZero())
}

func TestRegistryDuplicateRegisterFails(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("daily", nil))

	err := reg.Register("daily", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
}

func TestRegistryGetAbsent(t *testing.T) {
	reg := NewRegistry()

	def, ok := reg.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, def)
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("daily", []Step{{ID: "s1", AgentID: "a", Action: "generate"}}))

	def, ok := reg.Get("daily")
	require.True(t, ok)
	def.Steps[0].Action = "hacked"
	def.Steps = append(def.Steps, Step{ID: "extra"})

	again, ok := reg.Get("daily")
	require.True(t, ok)
	require.Len(t, again.Steps, 1)
	assert.Equal(t, "generate", again.Steps[0].Action)
}

func TestRegistryUpdate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("daily", []Step{{ID: "s1", AgentID: "a", Action: "generate"}}))

	require.NoError(t, reg.Update("daily", []Step{
		{ID: "s1", AgentID: "a", Action: "generate"},
		{ID: "s2", AgentID: "a", Action: "post"},
	}))

	def, ok := reg.Get("daily")
	require.True(t, ok)
	assert.Len(t, def.Steps, 2)
	assert.False(t, def.UpdatedAt.IsZero())
}

func TestRegistryUpdateAbsentFails(t *testing.T) {
	reg := NewRegistry()

	err := reg.Update("nope", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("daily", nil))
	require.NoError(t, reg.Remove("daily"))

	_, ok := reg.Get("daily")
	assert.False(t, ok)

	err := reg.Remove("daily")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRegistryClone(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("daily", []Step{
		{ID: "s1", AgentID: "writer", Action: "generate", Memorize: true},
	}))

	require.NoError(t, reg.Clone("daily", "weekly"))

	clone, ok := reg.Get("weekly")
	require.True(t, ok)
	assert.Equal(t, "daily", clone.ClonedFrom)
	require.Len(t, clone.Steps, 1)
	assert.Equal(t, "generate", clone.Steps[0].Action)
	assert.True(t, clone.Steps[0].Memorize)
}

func TestRegistryCloneMutationIsolation(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("daily", []Step{{ID: "s1", AgentID: "a", Action: "generate"}}))
	require.NoError(t, reg.Clone("daily", "weekly"))

	require.NoError(t, reg.Update("weekly", []Step{
		{ID: "s1", AgentID: "a", Action: "generate"},
		{ID: "s2", AgentID: "a", Action: "post"},
	}))

	original, ok := reg.Get("daily")
	require.True(t, ok)
	assert.Len(t, original.Steps, 1)
}

func TestRegistryCloneErrors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("daily", nil))

	err := reg.Clone("nope", "weekly")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = reg.Clone("daily", "daily")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
}

func TestRegistryCompose(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("draft", []Step{
		{ID: "d1", AgentID: "writer", Action: "generate"},
	}))
	require.NoError(t, reg.Register("publish", []Step{
		{ID: "p1", AgentID: "poster", Action: "post"},
		{ID: "p2", AgentID: "poster", Action: "like"},
	}))

	require.NoError(t, reg.Compose("full", []string{"draft", "publish"}))

	def, ok := reg.Get("full")
	require.True(t, ok)
	require.Len(t, def.Steps, 3)
	assert.Equal(t, "d1", def.Steps[0].ID)
	assert.Equal(t, "p1", def.Steps[1].ID)
	assert.Equal(t, "p2", def.Steps[2].ID)
}

func TestRegistryComposeErrors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("draft", nil))

	err := reg.Compose("draft", []string{"draft"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)

	err = reg.Compose("full", []string{"draft", "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("a", nil))
	require.NoError(t, reg.Register("b", nil))

	names := reg.List()
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}
