// Package connector contains the platform connector registry, the generic
// fallback connector and the multi-platform fan-out façade. The capability
// interfaces a connector may implement (post, reply, like, search, trends,
// stream) live in the core package.
//
// Unknown platform identifiers degrade gracefully: Create returns a generic
// connector that satisfies the minimal connect/post capabilities and logs a
// warning instead of failing, so workflow construction is never blocked by a
// platform the deployment has not registered.
package connector
