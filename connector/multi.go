package connector

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/socialmesh/core"
	"github.com/hupe1980/socialmesh/logging"
)

// PlatformResult is one platform's outcome of a fan-out action: either a
// value or an error, never both. Partial failure across platforms is a
// normal, observable outcome, not a run-level failure.
type PlatformResult struct {
	Platform string `json:"platform"`
	Value    any    `json:"value,omitempty"`
	Err      error  `json:"error,omitempty"`
}

// MultiPlatformOptions configures the fan-out façade.
type MultiPlatformOptions struct {
	// MaxConcurrency caps how many platform calls run at once.
	// Zero or negative means one goroutine per platform.
	MaxConcurrency int

	// Limiter gates each platform call, keyed "<platform>:<action>".
	// Nil disables rate limiting.
	Limiter core.RateLimiter

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// MultiPlatform fans a single action out to several platform connectors
// concurrently and independently. One platform's stall, failure or missing
// capability never aborts or blocks the others; each outcome is collected
// into a per-platform result map.
type MultiPlatform struct {
	connectors     map[string]core.Connector
	maxConcurrency int
	limiter        core.RateLimiter
	logger         logging.Logger
}

// NewMultiPlatform wraps the given connectors, keyed by platform identifier.
func NewMultiPlatform(connectors map[string]core.Connector, optFns ...func(o *MultiPlatformOptions)) *MultiPlatform {
	opts := MultiPlatformOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &MultiPlatform{
		connectors:     connectors,
		maxConcurrency: opts.MaxConcurrency,
		limiter:        opts.Limiter,
		logger:         opts.Logger,
	}
}

// Connector returns the connector for a platform and whether it exists.
func (m *MultiPlatform) Connector(platform string) (core.Connector, bool) {
	conn, ok := m.connectors[platform]
	return conn, ok
}

// Platforms returns all wrapped platform identifiers, order unspecified.
func (m *MultiPlatform) Platforms() []string {
	platforms := make([]string, 0, len(m.connectors))
	for id := range m.connectors {
		platforms = append(platforms, id)
	}
	return platforms
}

// ConnectAll connects every wrapped connector via the fan-out path.
func (m *MultiPlatform) ConnectAll(ctx context.Context) map[string]PlatformResult {
	return m.ExecuteAction(ctx, "connect", nil)
}

// DisconnectAll disconnects every wrapped connector via the fan-out path.
func (m *MultiPlatform) DisconnectAll(ctx context.Context) map[string]PlatformResult {
	return m.ExecuteAction(ctx, "disconnect", nil)
}

// ExecuteAction runs the named action against every targeted connector
// concurrently. With no explicit targets, all wrapped platforms are
// targeted. A platform named in targets but not wrapped reports ErrNotFound;
// a platform lacking the capability reports ErrActionNotImplemented; a
// platform out of rate-limit budget reports ErrRateLimited. All outcomes are
// awaited before the aggregate map is returned.
func (m *MultiPlatform) ExecuteAction(ctx context.Context, action string, params map[string]any, targets ...string) map[string]PlatformResult {
	if len(targets) == 0 {
		targets = m.Platforms()
	}

	var (
		mu      sync.Mutex
		results = make(map[string]PlatformResult, len(targets))
	)

	g, gctx := errgroup.WithContext(ctx)
	if m.maxConcurrency > 0 {
		g.SetLimit(m.maxConcurrency)
	}

	for _, platform := range targets {
		g.Go(func() error {
			var res PlatformResult
			res.Platform = platform

			conn, ok := m.connectors[platform]
			if !ok {
				res.Err = fmt.Errorf("platform %s: %w", platform, core.ErrNotFound)
			} else if err := m.checkLimit(gctx, platform, action); err != nil {
				// A rate-limited platform reports ErrRateLimited in its own
				// slot while the others proceed.
				res.Err = err
			} else {
				res.Value, res.Err = dispatch(gctx, conn, action, params)
			}
			if res.Err != nil {
				m.logger.Warn("fan-out action failed on platform", "platform", platform, "action", action, "error", res.Err)
			}

			mu.Lock()
			results[platform] = res
			mu.Unlock()

			// Failures stay isolated in the result map; never poison the group.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// checkLimit consumes one unit of the platform's action budget, keyed
// "<platform>:<action>". A nil limiter passes everything.
func (m *MultiPlatform) checkLimit(ctx context.Context, platform, action string) error {
	if m.limiter == nil {
		return nil
	}
	return m.limiter.Check(ctx, platform+":"+action)
}

// dispatch resolves an action name to the corresponding capability call,
// probing optional capabilities with type assertions.
func dispatch(ctx context.Context, conn core.Connector, action string, params map[string]any) (any, error) {
	switch action {
	case "connect":
		return conn.Connect(ctx)
	case "disconnect":
		return nil, conn.Disconnect(ctx)
	case "post":
		return conn.Post(ctx, stringParam(params, "content"), postOptions(params))
	case "reply":
		replier, ok := conn.(core.Replier)
		if !ok {
			return nil, capabilityError(conn, action)
		}
		return replier.Reply(ctx, stringParam(params, "target_id"), stringParam(params, "content"))
	case "like":
		liker, ok := conn.(core.Liker)
		if !ok {
			return nil, capabilityError(conn, action)
		}
		return liker.Like(ctx, stringParam(params, "target_id"))
	case "search":
		searcher, ok := conn.(core.Searcher)
		if !ok {
			return nil, capabilityError(conn, action)
		}
		return searcher.Search(ctx, stringParam(params, "query"), searchOptions(params))
	case "getTrends":
		trends, ok := conn.(core.TrendSource)
		if !ok {
			return nil, capabilityError(conn, action)
		}
		return trends.GetTrends(ctx, stringParam(params, "location"))
	default:
		return nil, capabilityError(conn, action)
	}
}

func capabilityError(conn core.Connector, action string) error {
	return fmt.Errorf("platform %s action %s: %w", conn.Platform(), action, core.ErrActionNotImplemented)
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func postOptions(params map[string]any) *core.PostOptions {
	opts := &core.PostOptions{}
	if tags, ok := params["tags"].([]string); ok {
		opts.Tags = tags
	}
	if media, ok := params["media_urls"].([]string); ok {
		opts.MediaURLs = media
	}
	return opts
}

func searchOptions(params map[string]any) *core.SearchOptions {
	opts := &core.SearchOptions{}
	if limit, ok := params["limit"].(int); ok {
		opts.Limit = limit
	}
	return opts
}
