package connector

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/socialmesh/core"
)

// mockConnector is a configurable in-test connector implementing the full
// capability set. Zero value behaves like a healthy connector once connected.
type mockConnector struct {
	Base
	failPost    error
	failConnect error
	postCalls   int
	delay       time.Duration
}

var (
	_ core.Connector   = (*mockConnector)(nil)
	_ core.Replier     = (*mockConnector)(nil)
	_ core.Liker       = (*mockConnector)(nil)
	_ core.Searcher    = (*mockConnector)(nil)
	_ core.TrendSource = (*mockConnector)(nil)
)

func newMockConnector(platform string) *mockConnector {
	return &mockConnector{Base: NewBase(platform)}
}

func (m *mockConnector) Connect(_ context.Context) (*core.ConnectionInfo, error) {
	if m.failConnect != nil {
		return nil, m.failConnect
	}
	m.markConnected()
	return &core.ConnectionInfo{Connected: true, Username: "mock"}, nil
}

func (m *mockConnector) Disconnect(_ context.Context) error {
	m.markDisconnected()
	return nil
}

func (m *mockConnector) Post(ctx context.Context, content string, _ *core.PostOptions) (*core.PostResult, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.postCalls++
	if m.failPost != nil {
		return nil, m.failPost
	}
	return &core.PostResult{ID: "post-1", Platform: m.Platform(), Content: content, Timestamp: time.Now()}, nil
}

func (m *mockConnector) Reply(_ context.Context, targetID, _ string) (*core.ReplyResult, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	return &core.ReplyResult{ID: "reply-1", Platform: m.Platform(), InReplyTo: targetID, Timestamp: time.Now()}, nil
}

func (m *mockConnector) Like(_ context.Context, targetID string) (*core.LikeResult, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	return &core.LikeResult{TargetID: targetID, Platform: m.Platform(), Liked: true}, nil
}

func (m *mockConnector) Search(_ context.Context, query string, _ *core.SearchOptions) ([]core.PostSummary, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	return []core.PostSummary{{ID: "hit-1", Platform: m.Platform(), Text: query}}, nil
}

func (m *mockConnector) GetTrends(_ context.Context, _ string) ([]core.Trend, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	return []core.Trend{{Name: "#golang", Volume: 1000}}, nil
}

// postOnlyConnector implements only the minimal capability set.
type postOnlyConnector struct {
	Base
}

var _ core.Connector = (*postOnlyConnector)(nil)

func (p *postOnlyConnector) Connect(_ context.Context) (*core.ConnectionInfo, error) {
	p.markConnected()
	return &core.ConnectionInfo{Connected: true}, nil
}

func (p *postOnlyConnector) Disconnect(_ context.Context) error {
	p.markDisconnected()
	return nil
}

func (p *postOnlyConnector) Post(_ context.Context, content string, _ *core.PostOptions) (*core.PostResult, error) {
	if err := p.requireConnected(); err != nil {
		return nil, err
	}
	return &core.PostResult{ID: "post-1", Platform: p.Platform(), Content: content, Timestamp: time.Now()}, nil
}

var errBoom = errors.New("boom")
