// Package executor runs a node graph to completion. Each run sorts the
// graph topologically, evaluates every node in dependency order, caches
// the tagged per-node results, and resolves the final image from the
// graph's output nodes. Evaluation is single-threaded and synchronous; a
// run recomputes the whole graph with no caching across runs.
package executor
