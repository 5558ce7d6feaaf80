// Package memory contains concrete MemoryStore implementations. The store
// interfaces and record types reside in the core package. Import
// github.com/hupe1980/socialmesh/core and depend on core.MemoryStore (or
// core.VectorMemoryStore) in your code; select an implementation at wiring
// time.
//
// Three backings are provided:
//   - InMemory: process-local map, suitable for tests and single-node runs
//   - Redis: durable remote key/value backing
//   - VectorStore: a decorator adding embedding-based similarity search over
//     any base store, with an atomically swapped in-process index
//
// The New factory makes the backing decision exactly once at initialization:
// a reachable Redis yields a vector-capable store on a durable backing; an
// unreachable one falls back to a process-local store whose similarity search
// is unsupported and returns empty results.
package memory
