package connector

import (
	"context"
	"time"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/internal/util"
	"github.com/hupe1980/socialmesh/logging"
)

// Generic is the fallback connector returned for platform identifiers no
// factory is registered for. It satisfies the minimal connect/post capability
// set without performing network I/O, so workflows targeting an unknown
// platform degrade gracefully instead of failing to construct.
//
// Posts are acknowledged with locally generated identities and logged; they
// go nowhere. Register a real factory for the platform to replace it.
type Generic struct {
	Base
	logger logging.Logger
	now    func() time.Time
}

var _ core.Connector = (*Generic)(nil)

// NewGeneric creates a fallback connector for the given platform identifier.
func NewGeneric(platform string, logger logging.Logger) *Generic {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Generic{
		Base:   NewBase(platform),
		logger: logger,
		now:    time.Now,
	}
}

// Connect establishes a local-only session.
func (g *Generic) Connect(_ context.Context) (*core.ConnectionInfo, error) {
	g.markConnected()
	return &core.ConnectionInfo{Connected: true, Username: "generic"}, nil
}

// Disconnect tears down the session.
func (g *Generic) Disconnect(_ context.Context) error {
	g.markDisconnected()
	return nil
}

// Post acknowledges the content with a locally generated post identity.
func (g *Generic) Post(_ context.Context, content string, _ *core.PostOptions) (*core.PostResult, error) {
	if err := g.requireConnected(); err != nil {
		return nil, err
	}
	result := &core.PostResult{
		ID:        util.NewID(),
		Platform:  g.Platform(),
		Content:   content,
		Timestamp: g.now(),
	}
	g.logger.Info("generic connector swallowed post", "platform", g.Platform(), "post_id", result.ID)
	return result, nil
}
