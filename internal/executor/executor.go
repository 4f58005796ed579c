package executor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/pixelgridgo/internal/ctxlog"
	"github.com/vk/pixelgridgo/internal/graph"
	"github.com/vk/pixelgridgo/internal/imagedata"
)

// Executor evaluates node graphs. It keeps the per-node output cache of
// the most recent run so callers can inspect intermediate results. Not
// safe for concurrent use; the graph must not be mutated during a run.
type Executor struct {
	outputs map[uuid.UUID]Value
}

// New creates an Executor with an empty output cache.
func New() *Executor {
	return &Executor{outputs: make(map[uuid.UUID]Value)}
}

// Execute runs a full graph pass and returns the resolved final image.
// inputs supplies pixel data for image source nodes, keyed by the numeric
// reference stored in their properties. A nil result with a nil error
// means the graph has no wired output node, which is a valid outcome.
func (e *Executor) Execute(ctx context.Context, g *graph.Graph, inputs map[uint64]*imagedata.ImageData) (*imagedata.ImageData, error) {
	logger := ctxlog.FromContext(ctx)

	// Previous run results are discarded; every pass recomputes the
	// whole graph.
	e.outputs = make(map[uuid.UUID]Value, g.Len())

	logger.Debug("▶️ Running graph pass.", "nodes", g.Len(), "connections", len(g.Connections()))

	order, err := sortNodes(g)
	if err != nil {
		return nil, err
	}
	logger.Debug("Topological sort complete.", "order", len(order))

	st := &runState{
		conns:   g.Connections(),
		outputs: e.outputs,
		inputs:  inputs,
	}

	for _, id := range order {
		node := g.Node(id)
		if node == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingNode, id)
		}
		out := evaluate(st, node)
		e.outputs[id] = out
		logger.Debug("Evaluated node.", "nodeID", id, "type", node.Type, "output", out.Kind())
	}

	result := extract(g, st)
	logger.Debug("✅ Graph pass complete.", "hasResult", result != nil)
	return result, nil
}

// Validate sorts the graph without evaluating anything, so callers can
// report cycles and dangling connections before committing to pixel work.
func Validate(g *graph.Graph) error {
	order, err := sortNodes(g)
	if err != nil {
		return err
	}
	for _, id := range order {
		if g.Node(id) == nil {
			return fmt.Errorf("%w: %s", ErrMissingNode, id)
		}
	}
	return nil
}

// Output returns the cached result for a node from the most recent run.
func (e *Executor) Output(id uuid.UUID) (Value, bool) {
	v, ok := e.outputs[id]
	return v, ok
}

// Outputs returns a copy of the full output cache of the most recent run.
func (e *Executor) Outputs() map[uuid.UUID]Value {
	out := make(map[uuid.UUID]Value, len(e.outputs))
	for id, v := range e.outputs {
		out[id] = v
	}
	return out
}

// sortNodes produces a dependency-first ordering of every node id via
// depth-first search. Each node carries a three-state marker: absent from
// visited (unvisited), true (in the current recursion stack), false
// (done). Meeting an in-stack node again is a back-edge, so the sort
// fails with ErrCycleDetected. Roots are taken in sorted id order, which
// keeps the ordering stable between runs.
//
// Ids referenced by connections but absent from the graph still enter the
// ordering; the evaluation loop turns them into ErrMissingNode.
func sortNodes(g *graph.Graph) ([]uuid.UUID, error) {
	conns := g.Connections()
	visited := make(map[uuid.UUID]bool)
	order := make([]uuid.UUID, 0, g.Len())

	var visit func(id uuid.UUID) error
	visit = func(id uuid.UUID) error {
		if inStack, seen := visited[id]; seen {
			if inStack {
				return fmt.Errorf("%w involving node %s", ErrCycleDetected, id)
			}
			return nil
		}
		visited[id] = true

		for _, c := range conns {
			if c.ToNode == id {
				if err := visit(c.FromNode); err != nil {
					return err
				}
			}
		}

		visited[id] = false
		order = append(order, id)
		return nil
	}

	for _, n := range g.Nodes() {
		if err := visit(n.ID); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// extract resolves the run's final image: the first output node in id
// order whose image input is fed by an upstream image. Graphs without a
// wired output node resolve to nil.
func extract(g *graph.Graph, st *runState) *imagedata.ImageData {
	for _, n := range g.Nodes() {
		if n.Type != graph.TypeOutput {
			continue
		}
		if img := st.inputImage(n.ID, 0); img != nil {
			return img
		}
	}
	return nil
}
