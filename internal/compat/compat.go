// Package compat converts graphs to and from the React Flow JSON layout
// the FlowNode.io web editor speaks: nodes with string ids and free-form
// data objects, edges with handle names, and an optional viewport. It is
// the wire shape of the cloud workflow store.
package compat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vk/pixelgridgo/internal/graph"
)

// Document is a full React Flow workflow.
type Document struct {
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// Node is one React Flow node. Data carries the property payload plus a
// display label.
type Node struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Position Position        `json:"position"`
	Data     json.RawMessage `json:"data"`
}

// Position is a React Flow canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is one React Flow connection. Handles name slots as "output-<n>"
// and "input-<n>"; absent handles mean slot 0.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Viewport is the editor's pan and zoom state.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// View is the viewport in graph-side terms.
type View struct {
	Pan  [2]float64
	Zoom float64
}

// DefaultView is the viewport used when a document carries none.
func DefaultView() View {
	return View{Zoom: 1}
}

// FromGraph lays a graph out as a React Flow document. Nodes are emitted
// in sorted id order and edges in insertion order, so equal graphs
// produce equal documents.
func FromGraph(g *graph.Graph, view View) (*Document, error) {
	nodes := make([]Node, 0, g.Len())
	for _, n := range g.Nodes() {
		data, err := nodeData(n)
		if err != nil {
			return nil, fmt.Errorf("failed to encode data of node %s: %w", n.ID, err)
		}
		nodes = append(nodes, Node{
			ID:       n.ID.String(),
			Type:     string(n.Type),
			Position: Position{X: n.Position[0], Y: n.Position[1]},
			Data:     data,
		})
	}

	conns := g.Connections()
	edges := make([]Edge, 0, len(conns))
	for i, c := range conns {
		edges = append(edges, Edge{
			ID:           fmt.Sprintf("edge-%d", i),
			Source:       c.FromNode.String(),
			Target:       c.ToNode.String(),
			SourceHandle: fmt.Sprintf("output-%d", c.FromSlot),
			TargetHandle: fmt.Sprintf("input-%d", c.ToSlot),
		})
	}

	return &Document{
		Nodes:    nodes,
		Edges:    edges,
		Viewport: &Viewport{X: view.Pan[0], Y: view.Pan[1], Zoom: view.Zoom},
	}, nil
}

// ToGraph rebuilds the graph a document describes. Node ids parse as
// UUIDs; ids the web editor invented ("node-3") get fresh identities,
// with edges resolved through the same mapping. Unknown node types and
// dangling edges are errors.
func (d *Document) ToGraph() (*graph.Graph, View, error) {
	ids := make(map[string]uuid.UUID, len(d.Nodes))
	nodes := make([]*graph.Node, 0, len(d.Nodes))
	for _, rn := range d.Nodes {
		id, ok := ids[rn.ID]
		if !ok {
			parsed, err := uuid.Parse(rn.ID)
			if err != nil {
				parsed = uuid.New()
			}
			id = parsed
			ids[rn.ID] = id
		}

		nodeType, err := graph.ParseNodeType(rn.Type)
		if err != nil {
			return nil, View{}, fmt.Errorf("node %s: %w", rn.ID, err)
		}

		props := graph.DefaultProperties(nodeType)
		if len(rn.Data) > 0 {
			if err := json.Unmarshal(rn.Data, props); err != nil {
				return nil, View{}, fmt.Errorf("failed to decode data of node %s: %w", rn.ID, err)
			}
		}
		if err := graph.ValidateProperties(props); err != nil {
			return nil, View{}, fmt.Errorf("node %s: %w", rn.ID, err)
		}

		pos := [2]float64{rn.Position.X, rn.Position.Y}
		nodes = append(nodes, graph.NewNodeWithID(id, nodeType, pos, props))
	}

	conns := make([]graph.Connection, 0, len(d.Edges))
	for _, e := range d.Edges {
		from, err := resolveID(ids, e.Source)
		if err != nil {
			return nil, View{}, fmt.Errorf("edge %s: %w", e.ID, err)
		}
		to, err := resolveID(ids, e.Target)
		if err != nil {
			return nil, View{}, fmt.Errorf("edge %s: %w", e.ID, err)
		}
		conns = append(conns, graph.Connection{
			FromNode: from,
			FromSlot: handleSlot(e.SourceHandle, "output-"),
			ToNode:   to,
			ToSlot:   handleSlot(e.TargetHandle, "input-"),
		})
	}

	g, err := graph.Build(nodes, conns)
	if err != nil {
		return nil, View{}, err
	}

	view := DefaultView()
	if d.Viewport != nil {
		view = View{Pan: [2]float64{d.Viewport.X, d.Viewport.Y}, Zoom: d.Viewport.Zoom}
	}
	return g, view, nil
}

// Marshal renders the document as indented JSON, the shape editor
// exports use.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal decodes a React Flow JSON document.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode workflow JSON: %w", err)
	}
	return &d, nil
}

// nodeData serializes a node's properties and adds the display label the
// web editor renders. Keys marshal sorted, keeping output stable.
func nodeData(n *graph.Node) (json.RawMessage, error) {
	raw, err := json.Marshal(n.Props)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["label"] = n.Type.DisplayName()
	return json.Marshal(fields)
}

func resolveID(ids map[string]uuid.UUID, raw string) (uuid.UUID, error) {
	if id, ok := ids[raw]; ok {
		return id, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid node reference %q", raw)
	}
	return id, nil
}

// handleSlot extracts the slot index from a handle name. Anything that
// does not parse cleanly means slot 0, matching how the web editor
// treats default handles.
func handleSlot(handle, prefix string) int {
	rest, ok := strings.CutPrefix(handle, prefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
