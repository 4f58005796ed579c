package graph

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Connection is a directed edge from an output slot to an input slot.
type Connection struct {
	FromNode uuid.UUID
	FromSlot int
	ToNode   uuid.UUID
	ToSlot   int
}

// Graph holds nodes keyed by id plus the connection list. It is not safe
// for concurrent use; callers serialize edits against executions (or hand
// the executor a Clone).
type Graph struct {
	nodes    map[uuid.UUID]*Node
	conns    []Connection
	selected uuid.UUID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[uuid.UUID]*Node)}
}

// AddNode creates a node of the given type at an auto-staggered position
// so consecutive adds never overlap exactly, and selects it.
func (g *Graph) AddNode(t NodeType) *Node {
	n := len(g.nodes)
	pos := [2]float64{
		100 + float64((n*30)%200),
		100 + float64((n*20)%150),
	}
	return g.InsertNodeAt(t, pos)
}

// InsertNodeAt creates a node at an explicit position and selects it.
func (g *Graph) InsertNodeAt(t NodeType, pos [2]float64) *Node {
	node := NewNode(t, pos)
	g.nodes[node.ID] = node
	g.selected = node.ID
	return node
}

// CloneNode duplicates a node with a fresh id, offset down-right the way a
// paste lands, and selects the copy. Connections are not duplicated.
// Returns nil when the id is unknown.
func (g *Graph) CloneNode(id uuid.UUID) *Node {
	src, ok := g.nodes[id]
	if !ok {
		return nil
	}
	dup := src.Clone()
	dup.ID = uuid.New()
	dup.Position[0] += 30
	dup.Position[1] += 30
	g.nodes[dup.ID] = dup
	g.selected = dup.ID
	return dup
}

// DeleteNode removes a node and every connection touching it. Selection is
// cleared when it pointed at the removed node.
func (g *Graph) DeleteNode(id uuid.UUID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)

	kept := g.conns[:0]
	for _, c := range g.conns {
		if c.FromNode != id && c.ToNode != id {
			kept = append(kept, c)
		}
	}
	g.conns = kept

	if g.selected == id {
		g.selected = uuid.Nil
	}
}

// Connect adds an edge. Re-adding an identical edge is a no-op; wiring
// into an occupied input slot replaces the previous edge there. Endpoints
// are not validated — a transient edge to a since-deleted id is an
// execution-time failure, not an edit-time one.
func (g *Graph) Connect(from uuid.UUID, fromSlot int, to uuid.UUID, toSlot int) {
	for _, c := range g.conns {
		if c.FromNode == from && c.FromSlot == fromSlot && c.ToNode == to && c.ToSlot == toSlot {
			return
		}
	}

	kept := g.conns[:0]
	for _, c := range g.conns {
		if !(c.ToNode == to && c.ToSlot == toSlot) {
			kept = append(kept, c)
		}
	}
	g.conns = append(kept, Connection{FromNode: from, FromSlot: fromSlot, ToNode: to, ToSlot: toSlot})
}

// Disconnect removes the exact edge, if present.
func (g *Graph) Disconnect(from uuid.UUID, fromSlot int, to uuid.UUID, toSlot int) {
	kept := g.conns[:0]
	for _, c := range g.conns {
		if !(c.FromNode == from && c.FromSlot == fromSlot && c.ToNode == to && c.ToSlot == toSlot) {
			kept = append(kept, c)
		}
	}
	g.conns = kept
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id uuid.UUID) *Node {
	return g.nodes[id]
}

// Nodes returns all nodes sorted by id. The fixed order keeps every
// consumer (executor, serializers, tests) deterministic.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

// Connections returns a copy of the edge list in insertion order.
func (g *Graph) Connections() []Connection {
	return append([]Connection(nil), g.conns...)
}

// Len returns the node count.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Select marks a node as selected; selecting uuid.Nil clears.
func (g *Graph) Select(id uuid.UUID) {
	g.selected = id
}

// Selected reports the currently selected node, if any.
func (g *Graph) Selected() (uuid.UUID, bool) {
	return g.selected, g.selected != uuid.Nil
}

// SetPosition moves a node; unknown ids are ignored.
func (g *Graph) SetPosition(id uuid.UUID, x, y float64) {
	if n, ok := g.nodes[id]; ok {
		n.Position = [2]float64{x, y}
	}
}

// Clone deep-copies the graph. Callers that mutate concurrently with a run
// hand the executor a clone instead of sharing.
func (g *Graph) Clone() *Graph {
	out := New()
	for id, n := range g.nodes {
		out.nodes[id] = n.Clone()
	}
	out.conns = append([]Connection(nil), g.conns...)
	out.selected = g.selected
	return out
}

// Build assembles a graph from parts, the entry point for persistence
// layers. Unlike live edits, loaded documents are validated eagerly:
// duplicate ids and edges naming unknown endpoints are rejected.
func Build(nodes []*Node, conns []Connection) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("duplicate node id %s", n.ID)
		}
		g.nodes[n.ID] = n
	}
	for _, c := range conns {
		if _, ok := g.nodes[c.FromNode]; !ok {
			return nil, fmt.Errorf("connection references unknown source node %s", c.FromNode)
		}
		if _, ok := g.nodes[c.ToNode]; !ok {
			return nil, fmt.Errorf("connection references unknown destination node %s", c.ToNode)
		}
		g.conns = append(g.conns, c)
	}
	return g, nil
}
