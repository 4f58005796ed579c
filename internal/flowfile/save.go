package flowfile

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pixelgridgo/internal/graph"
)

// Save serializes a graph into workflow HCL. Nodes are written in sorted
// id order and named <type>_<n> with a per-type counter, so equal graphs
// serialize to equal bytes.
func Save(g *graph.Graph, name string) ([]byte, error) {
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	if name != "" {
		wf := body.AppendNewBlock("workflow", nil)
		wf.Body().SetAttributeValue("name", cty.StringVal(name))
		body.AppendNewline()
	}

	names := assignNames(g)
	for _, n := range g.Nodes() {
		block := body.AppendNewBlock("node", []string{string(n.Type), names[n.ID]})
		nodeBody := block.Body()
		// EncodeIntoBody clears the body, so the position attribute
		// has to land after it.
		gohcl.EncodeIntoBody(saveProps(n.Props), nodeBody)
		nodeBody.SetAttributeValue("position", cty.ListVal([]cty.Value{
			cty.NumberFloatVal(n.Position[0]),
			cty.NumberFloatVal(n.Position[1]),
		}))
		body.AppendNewline()
	}

	for _, c := range g.Connections() {
		fromName, ok := names[c.FromNode]
		if !ok {
			return nil, fmt.Errorf("connection references unknown node %s", c.FromNode)
		}
		toName, ok := names[c.ToNode]
		if !ok {
			return nil, fmt.Errorf("connection references unknown node %s", c.ToNode)
		}

		block := body.AppendNewBlock("connect", nil)
		connBody := block.Body()
		connBody.SetAttributeValue("from", cty.StringVal(fromName))
		if c.FromSlot != 0 {
			connBody.SetAttributeValue("from_slot", cty.NumberIntVal(int64(c.FromSlot)))
		}
		connBody.SetAttributeValue("to", cty.StringVal(toName))
		if c.ToSlot != 0 {
			connBody.SetAttributeValue("to_slot", cty.NumberIntVal(int64(c.ToSlot)))
		}
	}

	return file.Bytes(), nil
}

// assignNames gives every node a document name with a per-type counter,
// in sorted id order.
func assignNames(g *graph.Graph) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, g.Len())
	counters := make(map[graph.NodeType]int)
	for _, n := range g.Nodes() {
		counters[n.Type]++
		names[n.ID] = fmt.Sprintf("%s_%d", n.Type, counters[n.Type])
	}
	return names
}

// saveProps hands the encoder a payload with no nil slices; a nil slice
// would render as null, which the loader rejects.
func saveProps(props graph.Properties) graph.Properties {
	if b, ok := props.(*graph.BucketProperties); ok && b.Images == nil {
		c := *b
		c.Images = []uint64{}
		return &c
	}
	return props
}
