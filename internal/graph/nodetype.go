package graph

import "fmt"

// NodeType tags a node with its behavior. The set is closed: evaluation
// dispatches over it, and persistence layers reject names outside it.
type NodeType string

const (
	TypeImage    NodeType = "image"
	TypeColor    NodeType = "color"
	TypeNumber   NodeType = "number"
	TypeText     NodeType = "text"
	TypeAdjust   NodeType = "adjust"
	TypeEffects  NodeType = "effects"
	TypeConcat   NodeType = "concat"
	TypeSplitter NodeType = "splitter"
	TypeRouter   NodeType = "router"
	TypeContent  NodeType = "content"
	TypeBucket   NodeType = "bucket"
	TypeCompare  NodeType = "compare"
	TypePostit   NodeType = "postit"
	TypeOutput   NodeType = "output"
)

// AllNodeTypes lists every valid type in display order.
var AllNodeTypes = []NodeType{
	TypeImage, TypeColor, TypeNumber, TypeText,
	TypeAdjust, TypeEffects,
	TypeConcat, TypeSplitter, TypeRouter,
	TypeContent, TypeBucket, TypeCompare,
	TypePostit, TypeOutput,
}

// ParseNodeType validates a type name coming from a workflow file.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	for _, known := range AllNodeTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown node type %q", s)
}

// DisplayName is the human-facing node title editors render.
func (t NodeType) DisplayName() string {
	switch t {
	case TypeImage:
		return "Image"
	case TypeColor:
		return "Color"
	case TypeNumber:
		return "Number"
	case TypeText:
		return "Text"
	case TypeAdjust:
		return "Adjust"
	case TypeEffects:
		return "Effects"
	case TypeConcat:
		return "Concat"
	case TypeSplitter:
		return "Splitter"
	case TypeRouter:
		return "Router"
	case TypeContent:
		return "Content"
	case TypeBucket:
		return "Bucket"
	case TypeCompare:
		return "Compare"
	case TypePostit:
		return "Post-it"
	case TypeOutput:
		return "Output"
	default:
		return string(t)
	}
}

// SlotType names the kind of value a slot carries. Slot declarations are
// editor metadata; the executor resolves by index and does not type-check.
type SlotType string

const (
	SlotImage  SlotType = "image"
	SlotText   SlotType = "text"
	SlotColor  SlotType = "color"
	SlotNumber SlotType = "number"
	SlotAny    SlotType = "any"
)

// Slot describes one input or output port.
type Slot struct {
	Name string
	Type SlotType
}

// InputSlots declares the input ports for the type.
func (t NodeType) InputSlots() []Slot {
	switch t {
	case TypeAdjust, TypeEffects:
		return []Slot{{"Image", SlotImage}}
	case TypeConcat:
		return []Slot{{"A", SlotText}, {"B", SlotText}}
	case TypeSplitter:
		return []Slot{{"Text", SlotText}}
	case TypeRouter:
		return []Slot{{"In 0", SlotAny}, {"In 1", SlotAny}, {"In 2", SlotAny}}
	case TypeContent:
		return []Slot{{"In", SlotAny}}
	case TypeBucket:
		return []Slot{{"Image", SlotImage}}
	case TypeCompare:
		return []Slot{{"A", SlotImage}, {"B", SlotImage}}
	case TypeOutput:
		return []Slot{{"Image", SlotImage}}
	default:
		return nil
	}
}

// OutputSlots declares the output ports for the type.
func (t NodeType) OutputSlots() []Slot {
	switch t {
	case TypeImage:
		return []Slot{{"Image", SlotImage}}
	case TypeColor:
		return []Slot{{"Color", SlotColor}}
	case TypeNumber:
		return []Slot{{"Value", SlotNumber}}
	case TypeText:
		return []Slot{{"Text", SlotText}}
	case TypeAdjust, TypeEffects:
		return []Slot{{"Image", SlotImage}}
	case TypeConcat:
		return []Slot{{"Text", SlotText}}
	case TypeSplitter:
		return []Slot{{"First", SlotText}}
	case TypeRouter:
		return []Slot{{"Out", SlotAny}}
	case TypeContent:
		return []Slot{{"Out", SlotAny}}
	case TypeBucket, TypeCompare:
		return []Slot{{"Image", SlotImage}}
	default:
		return nil
	}
}
