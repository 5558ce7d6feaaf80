// Package core provides the foundational domain types and interfaces used by
// SocialMesh. It defines the core abstractions for:
//
//   - Agents (named units exposing callable actions)
//   - Connectors (platform integrations with a graded capability set)
//   - Memory stores (keyed persistence with optional similarity search)
//   - Rate limiting (per-key quota gates consulted before side effects)
//   - Execution contexts (the accumulating state threaded through a workflow)
//
// The package intentionally keeps implementation concerns (persistence,
// orchestration, concrete connectors) out of scope, exposing small interfaces
// to enable custom backends and extensions.
package core
