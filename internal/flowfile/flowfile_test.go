package flowfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pixelgridgo/internal/graph"
)

const exampleDocument = `
workflow {
  name = "portrait finish"
}

node "image" "photo" {
  position  = [100, 100]
  image_ref = 1
}

node "adjust" "grade" {
  brightness = -20
  vibrance   = 35
}

node "effects" "finish" {
  vignette           = 60
  vignette_roundness = 100
  grain              = 12
  grain_seed         = 7
}

node "output" "final" {}

connect { from = "photo"  to = "grade" }
connect { from = "grade"  to = "finish" }
connect { from = "finish" to = "final" }
`

func TestParse(t *testing.T) {
	wf, err := Parse(context.Background(), "example.hcl", []byte(exampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "portrait finish", wf.Name)
	require.Equal(t, 4, wf.Graph.Len())
	require.Len(t, wf.Graph.Connections(), 3)

	t.Run("node ids derive from names", func(t *testing.T) {
		photo := wf.Graph.Node(NodeID("photo"))
		require.NotNil(t, photo)
		assert.Equal(t, graph.TypeImage, photo.Type)
		assert.Equal(t, uint64(1), photo.Props.(*graph.ImageProperties).ImageRef)
	})

	t.Run("declared positions are kept", func(t *testing.T) {
		photo := wf.Graph.Node(NodeID("photo"))
		assert.Equal(t, [2]float64{100, 100}, photo.Position)
	})

	t.Run("missing positions fall back to staggered placement", func(t *testing.T) {
		grade := wf.Graph.Node(NodeID("grade"))
		require.NotNil(t, grade)
		assert.Equal(t, [2]float64{130, 120}, grade.Position)
	})

	t.Run("set attributes override defaults, absent ones keep them", func(t *testing.T) {
		finish := wf.Graph.Node(NodeID("finish"))
		require.NotNil(t, finish)
		props := finish.Props.(*graph.EffectsProperties)

		assert.Equal(t, 60.0, props.Vignette)
		assert.Equal(t, 100.0, props.VignetteRoundness)
		assert.Equal(t, 12.0, props.Grain)
		assert.Equal(t, uint32(7), props.GrainSeed)

		assert.Equal(t, 50.0, props.ProgressiveBlurFalloff)
		assert.Equal(t, 10.0, props.GlassBlindsFrequency)
		assert.Equal(t, 2.0, props.GrainSize)
		assert.Equal(t, 50.0, props.VignetteSmoothness)
		assert.Equal(t, graph.DirectionTop, props.ProgressiveBlurDirection)
	})

	t.Run("connect slots default to zero", func(t *testing.T) {
		for _, c := range wf.Graph.Connections() {
			assert.Zero(t, c.FromSlot)
			assert.Zero(t, c.ToSlot)
		}
	})

	t.Run("parsing twice yields identical node identities", func(t *testing.T) {
		again, err := Parse(context.Background(), "example.hcl", []byte(exampleDocument))
		require.NoError(t, err)
		for _, n := range wf.Graph.Nodes() {
			assert.NotNil(t, again.Graph.Node(n.ID))
		}
	})
}

func TestParseDiagnostics(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "malformed syntax",
			src:     `node "image" {`,
			wantErr: "failed to parse workflow file",
		},
		{
			name:    "unknown node type",
			src:     `node "warp" "w" {}`,
			wantErr: "unknown node type",
		},
		{
			name: "duplicate node name",
			src: `
node "text" "t" {}
node "text" "t" {}
`,
			wantErr: `duplicate node name "t"`,
		},
		{
			name:    "unknown attribute",
			src:     `node "text" "t" { nonsense = 1 }`,
			wantErr: `failed to decode node "t"`,
		},
		{
			name:    "short color tuple",
			src:     `node "color" "c" { rgba = [1, 0, 0] }`,
			wantErr: "rgba needs 4 components, got 3",
		},
		{
			name:    "bad blur direction",
			src:     `node "effects" "e" { progressive_blur_direction = "diagonal" }`,
			wantErr: `unknown progressive blur direction "diagonal"`,
		},
		{
			name:    "short position",
			src:     `node "text" "t" { position = [1] }`,
			wantErr: "position needs 2 components, got 1",
		},
		{
			name: "connect to unknown node",
			src: `
node "text" "t" {}
connect { from = "t" to = "ghost" }
`,
			wantErr: `connect references unknown node "ghost"`,
		},
		{
			name: "input slot out of range",
			src: `
node "image" "a" {}
node "adjust" "b" {}
connect { from = "a" to = "b" to_slot = 5 }
`,
			wantErr: `node type "adjust" has no input slot 5`,
		},
		{
			name: "output node has no output slots",
			src: `
node "output" "a" {}
node "adjust" "b" {}
connect { from = "a" to = "b" }
`,
			wantErr: `node type "output" has no output slot 0`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(context.Background(), "bad.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "workflow.hcl")
		require.NoError(t, os.WriteFile(path, []byte(exampleDocument), 0o644))

		wf, err := Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 4, wf.Graph.Len())
	})

	t.Run("directory merges every file", func(t *testing.T) {
		dir := t.TempDir()
		nodes := `
workflow {
  name = "split across files"
}

node "text" "hello" { text = "Hello" }
node "text" "world" { text = "World" }
node "concat" "join" { separator = " " }
`
		wires := `
connect { from = "hello" to = "join" }
connect { from = "world" to = "join" to_slot = 1 }
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "10-nodes.hcl"), []byte(nodes), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20-wires.hcl"), []byte(wires), 0o644))

		wf, err := Load(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, "split across files", wf.Name)
		assert.Equal(t, 3, wf.Graph.Len())
		assert.Len(t, wf.Graph.Connections(), 2)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Load(context.Background(), t.TempDir())
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat workflow path")
	})
}

func TestSave(t *testing.T) {
	build := func() *graph.Graph {
		g := graph.New()
		src := g.InsertNodeAt(graph.TypeImage, [2]float64{5, 6})
		src.Props.(*graph.ImageProperties).ImageRef = 3
		adj := g.AddNode(graph.TypeAdjust)
		adj.Props.(*graph.AdjustProperties).Brightness = -20
		out := g.AddNode(graph.TypeOutput)
		g.Connect(src.ID, 0, adj.ID, 0)
		g.Connect(adj.ID, 0, out.ID, 0)
		return g
	}

	t.Run("round trips through the loader", func(t *testing.T) {
		g := build()
		src, err := Save(g, "grade pass")
		require.NoError(t, err)

		wf, err := Parse(context.Background(), "saved.hcl", src)
		require.NoError(t, err)

		assert.Equal(t, "grade pass", wf.Name)
		require.Equal(t, 3, wf.Graph.Len())
		require.Len(t, wf.Graph.Connections(), 2)

		var imgNode, adjNode *graph.Node
		for _, n := range wf.Graph.Nodes() {
			switch n.Type {
			case graph.TypeImage:
				imgNode = n
			case graph.TypeAdjust:
				adjNode = n
			}
		}
		require.NotNil(t, imgNode)
		require.NotNil(t, adjNode)
		assert.Equal(t, uint64(3), imgNode.Props.(*graph.ImageProperties).ImageRef)
		assert.Equal(t, [2]float64{5, 6}, imgNode.Position)
		assert.Equal(t, -20.0, adjNode.Props.(*graph.AdjustProperties).Brightness)
	})

	t.Run("serialization is deterministic", func(t *testing.T) {
		g := build()
		first, err := Save(g, "grade pass")
		require.NoError(t, err)
		second, err := Save(g, "grade pass")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("non-zero slots are written and read back", func(t *testing.T) {
		g := graph.New()
		a := g.AddNode(graph.TypeText)
		b := g.AddNode(graph.TypeText)
		cat := g.AddNode(graph.TypeConcat)
		g.Connect(a.ID, 0, cat.ID, 0)
		g.Connect(b.ID, 0, cat.ID, 1)

		src, err := Save(g, "")
		require.NoError(t, err)

		wf, err := Parse(context.Background(), "slots.hcl", src)
		require.NoError(t, err)

		slots := []int{}
		for _, c := range wf.Graph.Connections() {
			slots = append(slots, c.ToSlot)
		}
		assert.ElementsMatch(t, []int{0, 1}, slots)
	})

	t.Run("bucket nodes with no images stay loadable", func(t *testing.T) {
		g := graph.New()
		bucket := g.AddNode(graph.TypeBucket)
		g.CloneNode(bucket.ID)

		src, err := Save(g, "")
		require.NoError(t, err)

		_, err = Parse(context.Background(), "buckets.hcl", src)
		require.NoError(t, err)
	})
}
