package flowfile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/pixelgridgo/internal/ctxlog"
	"github.com/vk/pixelgridgo/internal/fsutil"
	"github.com/vk/pixelgridgo/internal/graph"
)

// Extension is the workflow file suffix.
const Extension = ".hcl"

// ErrNoFiles is returned when a directory load finds nothing to parse.
var ErrNoFiles = errors.New("no workflow files found")

// Workflow is a loaded document: an optional display name plus the graph.
type Workflow struct {
	Name  string
	Graph *graph.Graph
}

// NodeID derives the stable id of a named node. Ids depend only on the
// name, so reloading a document or diffing it against a stored copy
// yields identical node identities.
func NodeID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("pixelgrid://node/"+name))
}

// fileSchema is the top-level HCL shape of one workflow file.
type fileSchema struct {
	Workflow *workflowBlock  `hcl:"workflow,block"`
	Nodes    []*nodeBlock    `hcl:"node,block"`
	Connects []*connectBlock `hcl:"connect,block"`
}

type workflowBlock struct {
	Name        string `hcl:"name,optional"`
	Description string `hcl:"description,optional"`
}

// nodeBlock defers everything but the position to a per-type decode of
// the remaining body, driven by the node type label.
type nodeBlock struct {
	Type     string    `hcl:"type,label"`
	Name     string    `hcl:"name,label"`
	Position []float64 `hcl:"position,optional"`
	Remain   hcl.Body  `hcl:",remain"`
}

type connectBlock struct {
	From     string `hcl:"from"`
	FromSlot int    `hcl:"from_slot,optional"`
	To       string `hcl:"to"`
	ToSlot   int    `hcl:"to_slot,optional"`
}

// Load reads a workflow from a single file, or from every workflow file
// under a directory merged into one document.
func Load(ctx context.Context, path string) (*Workflow, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat workflow path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, fmt.Errorf("failed to find workflow files in %s: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%w under %s", ErrNoFiles, path)
		}
	}
	logger.Debug("Loading workflow document.", "path", path, "files", len(files))

	parser := hclparse.NewParser()
	doc := &document{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse workflow file %s: %w", file, diags)
		}
		if err := doc.mergeBody(hclFile.Body, file); err != nil {
			return nil, err
		}
	}

	return doc.build(ctx)
}

// Parse decodes a workflow document held in memory. The filename only
// labels diagnostics.
func Parse(ctx context.Context, filename string, src []byte) (*Workflow, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", filename, diags)
	}

	doc := &document{}
	if err := doc.mergeBody(hclFile.Body, filename); err != nil {
		return nil, err
	}
	return doc.build(ctx)
}

// document accumulates blocks across the files of a directory load.
type document struct {
	name     string
	nodes    []*nodeBlock
	connects []*connectBlock
}

func (d *document) mergeBody(body hcl.Body, filename string) error {
	var schema fileSchema
	if diags := gohcl.DecodeBody(body, nil, &schema); diags.HasErrors() {
		return fmt.Errorf("failed to decode workflow file %s: %w", filename, diags)
	}
	if schema.Workflow != nil && d.name == "" {
		d.name = schema.Workflow.Name
	}
	d.nodes = append(d.nodes, schema.Nodes...)
	d.connects = append(d.connects, schema.Connects...)
	return nil
}

func (d *document) build(ctx context.Context) (*Workflow, error) {
	logger := ctxlog.FromContext(ctx)

	nodes := make([]*graph.Node, 0, len(d.nodes))
	byName := make(map[string]*graph.Node, len(d.nodes))
	for i, block := range d.nodes {
		nodeType, err := graph.ParseNodeType(block.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", block.Name, err)
		}
		if _, dup := byName[block.Name]; dup {
			return nil, fmt.Errorf("duplicate node name %q", block.Name)
		}

		pos, err := blockPosition(block, i)
		if err != nil {
			return nil, err
		}

		props := graph.DefaultProperties(nodeType)
		if diags := gohcl.DecodeBody(block.Remain, nil, props); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode node %q: %w", block.Name, diags)
		}
		if err := validateProperties(block.Name, props); err != nil {
			return nil, err
		}

		node := graph.NewNodeWithID(NodeID(block.Name), nodeType, pos, props)
		nodes = append(nodes, node)
		byName[block.Name] = node
	}

	conns := make([]graph.Connection, 0, len(d.connects))
	for _, c := range d.connects {
		from, ok := byName[c.From]
		if !ok {
			return nil, fmt.Errorf("connect references unknown node %q", c.From)
		}
		to, ok := byName[c.To]
		if !ok {
			return nil, fmt.Errorf("connect references unknown node %q", c.To)
		}
		if err := validateSlots(from, c.FromSlot, to, c.ToSlot); err != nil {
			return nil, err
		}
		conns = append(conns, graph.Connection{
			FromNode: from.ID,
			FromSlot: c.FromSlot,
			ToNode:   to.ID,
			ToSlot:   c.ToSlot,
		})
	}

	g, err := graph.Build(nodes, conns)
	if err != nil {
		return nil, err
	}

	logger.Debug("Workflow document assembled.", "name", d.name, "nodes", g.Len(), "connections", len(conns))
	return &Workflow{Name: d.name, Graph: g}, nil
}

// blockPosition returns the declared position, or the same staggered
// default placement interactive adds use, keyed by declaration order.
func blockPosition(block *nodeBlock, index int) ([2]float64, error) {
	if block.Position == nil {
		return [2]float64{
			100 + float64((index*30)%200),
			100 + float64((index*20)%150),
		}, nil
	}
	if len(block.Position) != 2 {
		return [2]float64{}, fmt.Errorf("node %q: position needs 2 components, got %d", block.Name, len(block.Position))
	}
	return [2]float64{block.Position[0], block.Position[1]}, nil
}

func validateProperties(name string, props graph.Properties) error {
	if err := graph.ValidateProperties(props); err != nil {
		return fmt.Errorf("node %q: %w", name, err)
	}
	return nil
}

func validateSlots(from *graph.Node, fromSlot int, to *graph.Node, toSlot int) error {
	if fromSlot < 0 || fromSlot >= len(from.Type.OutputSlots()) {
		return fmt.Errorf("node type %q has no output slot %d", from.Type, fromSlot)
	}
	if toSlot < 0 || toSlot >= len(to.Type.InputSlots()) {
		return fmt.Errorf("node type %q has no input slot %d", to.Type, toSlot)
	}
	return nil
}
