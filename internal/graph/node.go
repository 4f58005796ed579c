package graph

import "github.com/google/uuid"

// Node is a typed unit of work. Position is editor layout only and never
// affects execution.
type Node struct {
	ID       uuid.UUID
	Type     NodeType
	Position [2]float64
	Props    Properties
}

// NewNode builds a node of the given type with default properties and a
// fresh random id.
func NewNode(t NodeType, pos [2]float64) *Node {
	return &Node{
		ID:       uuid.New(),
		Type:     t,
		Position: pos,
		Props:    DefaultProperties(t),
	}
}

// NewNodeWithID is the constructor for persistence layers that carry their
// own ids.
func NewNodeWithID(id uuid.UUID, t NodeType, pos [2]float64, props Properties) *Node {
	if props == nil {
		props = DefaultProperties(t)
	}
	return &Node{ID: id, Type: t, Position: pos, Props: props}
}

// SetType switches the node's type, replacing the properties with the new
// type's defaults. Type and payload always change together.
func (n *Node) SetType(t NodeType) {
	n.Type = t
	n.Props = DefaultProperties(t)
}

// Clone returns a deep copy with the same id.
func (n *Node) Clone() *Node {
	return &Node{
		ID:       n.ID,
		Type:     n.Type,
		Position: n.Position,
		Props:    n.Props.Clone(),
	}
}
