package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/model"
)

var _ core.Agent = (*ModelAgent)(nil)

func TestBaseAgent_ActionTable(t *testing.T) {
	a := NewBaseAgent("a1", "twitter", "mastodon")
	assert.Equal(t, "a1", a.ID())
	assert.Equal(t, []string{"twitter", "mastodon"}, a.Platforms())

	require.NoError(t, a.RegisterAction("speak", func(*core.ActionContext) (any, error) {
		return "hi", nil
	}))

	fn, ok := a.Action("speak")
	require.True(t, ok)
	result, err := fn(&core.ActionContext{Context: context.Background()})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)

	_, ok = a.Action("fly")
	assert.False(t, ok)
	assert.Equal(t, []string{"speak"}, a.Actions())
}

func TestBaseAgent_RegisterActionValidation(t *testing.T) {
	a := NewBaseAgent("a1")

	err := a.RegisterAction("", func(*core.ActionContext) (any, error) { return nil, nil })
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))

	err = a.RegisterAction("speak", nil)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))
}

func TestModelAgent_DefaultActions(t *testing.T) {
	m := model.NewMockModel("test-model")
	a, err := NewModelAgent("writer", m, []string{"twitter"})
	require.NoError(t, err)

	assert.Equal(t, []string{"analyze", "generate", "sentiment"}, a.Actions())
}

func TestModelAgent_GenerateRendersTopic(t *testing.T) {
	m := model.NewMockModel("test-model")
	m.AddResponse("Write a post about: golang", "Go is great!")

	a, err := NewModelAgent("writer", m, []string{"twitter"})
	require.NoError(t, err)

	fn, ok := a.Action("generate")
	require.True(t, ok)

	exec := core.NewExecutionContext(map[string]any{"topic": "golang"})
	result, err := fn(&core.ActionContext{Context: context.Background(), Exec: exec})
	require.NoError(t, err)
	assert.Equal(t, "Go is great!", result)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Instructions, "content writer")
}

func TestModelAgent_AnalyzeUsesLastResult(t *testing.T) {
	m := model.NewMockModel("test-model")
	a, err := NewModelAgent("analyst", m, []string{"twitter"})
	require.NoError(t, err)

	fn, ok := a.Action("analyze")
	require.True(t, ok)

	_, err = fn(&core.ActionContext{
		Context:    context.Background(),
		Exec:       core.NewExecutionContext(nil),
		LastAction: "generate",
		LastResult: "Go is great!",
	})
	require.NoError(t, err)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, "Go is great!")
}

func TestModelAgent_ModelErrorPropagates(t *testing.T) {
	m := model.NewMockModel("test-model")
	m.FailWith(errors.New("provider down"))

	a, err := NewModelAgent("writer", m, []string{"twitter"})
	require.NoError(t, err)

	fn, _ := a.Action("generate")
	_, err = fn(&core.ActionContext{Context: context.Background(), Exec: core.NewExecutionContext(nil)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestModelAgent_CustomActions(t *testing.T) {
	m := model.NewMockModel("test-model")
	a, err := NewModelAgent("custom", m, []string{"twitter"}, func(o *ModelAgentOptions) {
		o.Actions = []PromptAction{{Name: "haiku", Template: "Write a haiku about {{.topic}}"}}
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"haiku"}, a.Actions())
	_, ok := a.Action("generate")
	assert.False(t, ok)
}
