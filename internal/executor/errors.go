package executor

import "errors"

var (
	// ErrCycleDetected aborts a run whose graph contains a back-edge. No
	// partial result is produced.
	ErrCycleDetected = errors.New("cycle detected in graph")

	// ErrMissingNode aborts a run when a connection names a node id the
	// graph does not hold. Live edits cascade connection removal, so this
	// surfaces either a hand-wired dangling edge or a concurrent mutation
	// of the graph during the run.
	ErrMissingNode = errors.New("node not found")
)
