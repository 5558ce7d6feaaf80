package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/socialmesh/core"
)

func TestRegistry_RegisterAndCreate(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register("twitter", func(config map[string]any) (core.Connector, error) {
		return newMockConnector("twitter"), nil
	})
	require.NoError(t, err)

	conn, err := registry.Create("twitter", nil)
	require.NoError(t, err)
	assert.Equal(t, "twitter", conn.Platform())
	assert.IsType(t, &mockConnector{}, conn)

	assert.Equal(t, []string{"twitter"}, registry.Platforms())
}

func TestRegistry_RegisterValidation(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name       string
		platformID string
		factory    Factory
	}{
		{"empty id", "", func(map[string]any) (core.Connector, error) { return newMockConnector("x"), nil }},
		{"uppercase id", "Twitter", func(map[string]any) (core.Connector, error) { return newMockConnector("x"), nil }},
		{"spaces in id", "my platform", func(map[string]any) (core.Connector, error) { return newMockConnector("x"), nil }},
		{"leading digit", "1platform", func(map[string]any) (core.Connector, error) { return newMockConnector("x"), nil }},
		{"nil factory", "valid", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.Register(tt.platformID, tt.factory)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidArgument))
		})
	}
}

func TestRegistry_UnknownPlatformFallsBackToGeneric(t *testing.T) {
	registry := NewRegistry()

	conn, err := registry.Create("unknown-net", map[string]any{"token": "x"})
	require.NoError(t, err)
	require.IsType(t, &Generic{}, conn)
	assert.Equal(t, "unknown-net", conn.Platform())

	// The fallback still satisfies the minimal connect/post capabilities.
	ctx := context.Background()
	info, err := conn.Connect(ctx)
	require.NoError(t, err)
	assert.True(t, info.Connected)

	result, err := conn.Post(ctx, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Content)
	assert.NotEmpty(t, result.ID)
}

func TestRegistry_FactoryErrorPropagates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("broken", func(map[string]any) (core.Connector, error) {
		return nil, errBoom
	}))

	_, err := registry.Create("broken", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
}

func TestGeneric_PostRequiresConnect(t *testing.T) {
	conn := NewGeneric("anything", nil)

	_, err := conn.Post(context.Background(), "hello", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotConnected))

	_, err = conn.Connect(context.Background())
	require.NoError(t, err)
	_, err = conn.Post(context.Background(), "hello", nil)
	assert.NoError(t, err)

	require.NoError(t, conn.Disconnect(context.Background()))
	_, err = conn.Post(context.Background(), "hello", nil)
	assert.True(t, errors.Is(err, core.ErrNotConnected))
}

func TestBase_ConnectIdempotent(t *testing.T) {
	conn := newMockConnector("twitter")
	ctx := context.Background()

	_, err := conn.Connect(ctx)
	require.NoError(t, err)
	_, err = conn.Connect(ctx)
	require.NoError(t, err)
	assert.True(t, conn.Connected())
}
