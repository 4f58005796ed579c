package integration_tests

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pixelgridgo/internal/imagedata"
	"github.com/vk/pixelgridgo/internal/testutil"
)

// TestRenderPipeline_GradeChain runs a full grade pass over a real PNG
// input: source image into a color adjustment into an effects stage into
// the output node.
func TestRenderPipeline_GradeChain(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workflowHCL := `
		workflow {
			name = "grade"
		}

		node "image" "photo" {
			image_ref = 1
		}

		node "adjust" "darken" {
			brightness = -100
		}

		node "effects" "finish" {}

		node "output" "final" {}

		connect { from = "photo"  to = "darken" }
		connect { from = "darken" to = "finish" }
		connect { from = "finish" to = "final" }
	`
	files := map[string]string{"grade.hcl": workflowHCL}
	inputs := map[uint64]*imagedata.ImageData{
		1: imagedata.Solid(8, 8, [4]byte{255, 0, 0, 255}),
	}

	// --- Act ---
	result := testutil.RenderWorkflow(t, files, inputs)

	// --- Assert ---
	require.NoError(t, result.Err, "The render run should not produce an error")

	out := result.Rendered(t)
	assert.Equal(t, 8, out.Width)
	assert.Equal(t, 8, out.Height)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			assert.Equal(t, [4]byte{0, 0, 0, 255}, out.PixelAt(x, y), "brightness -100 should floor every pixel")
		}
	}

	testutil.RequireLogLine(t, result.LogOutput, "Starting render.", "workflow=grade", "nodes=4", "inputs=1")
	testutil.RequireLogLine(t, result.LogOutput, "Render finished.", "width=8", "height=8")
}

// Effects sliders at their resting defaults must not touch a single pixel.
func TestRenderPipeline_EffectsAtRestAreIdentity(t *testing.T) {
	t.Parallel()

	workflowHCL := `
		node "image" "photo" {
			image_ref = 1
		}

		node "effects" "untouched" {}

		node "output" "final" {}

		connect { from = "photo"     to = "untouched" }
		connect { from = "untouched" to = "final" }
	`
	src := imagedata.Checkerboard(8, 8, 2)

	result := testutil.RenderWorkflow(t,
		map[string]string{"identity.hcl": workflowHCL},
		map[uint64]*imagedata.ImageData{1: src},
	)

	require.NoError(t, result.Err)
	out := result.Rendered(t)
	assert.Equal(t, src.Pixels, out.Pixels, "an effects node with every slider at zero must pass the image through untouched")
}

func TestRenderPipeline_VignetteDarkensCorners(t *testing.T) {
	t.Parallel()

	workflowHCL := `
		node "image" "photo" {
			image_ref = 1
		}

		node "effects" "vig" {
			vignette = 100
		}

		node "output" "final" {}

		connect { from = "photo" to = "vig" }
		connect { from = "vig"   to = "final" }
	`
	result := testutil.RenderWorkflow(t,
		map[string]string{"vignette.hcl": workflowHCL},
		map[uint64]*imagedata.ImageData{1: imagedata.Solid(32, 32, [4]byte{255, 255, 255, 255})},
	)

	require.NoError(t, result.Err)
	out := result.Rendered(t)

	center := out.PixelAt(16, 16)
	corner := out.PixelAt(0, 0)
	assert.Equal(t, [4]byte{255, 255, 255, 255}, center, "the image center sits inside the falloff start and stays untouched")
	assert.Less(t, int(corner[0]), 64, "the corner should be heavily darkened")
	assert.Equal(t, uint8(255), corner[3], "vignetting never touches alpha")
}

// TestRenderPipeline_RouterSelectsInput wires two sources into a router
// and checks that only the active input reaches the output node.
func TestRenderPipeline_RouterSelectsInput(t *testing.T) {
	t.Parallel()

	workflowHCL := `
		node "image" "red" {
			image_ref = 1
		}

		node "image" "blue" {
			image_ref = 2
		}

		node "router" "pick" {
			active_input = 1
		}

		node "output" "final" {}

		connect { from = "red"  to = "pick" }
		connect { from = "blue" to = "pick" to_slot = 1 }
		connect { from = "pick" to = "final" }
	`
	result := testutil.RenderWorkflow(t,
		map[string]string{"router.hcl": workflowHCL},
		map[uint64]*imagedata.ImageData{
			1: imagedata.Solid(4, 4, [4]byte{255, 0, 0, 255}),
			2: imagedata.Solid(4, 4, [4]byte{0, 0, 255, 255}),
		},
	)

	require.NoError(t, result.Err)
	out := result.Rendered(t)
	assert.Equal(t, [4]byte{0, 0, 255, 255}, out.PixelAt(0, 0), "the router should forward its second input")
}

// Seeded grain has to reproduce bit for bit, so rendering the same
// workflow twice must yield byte-identical files.
func TestRenderPipeline_DeterministicOutput(t *testing.T) {
	t.Parallel()

	workflowHCL := `
		node "image" "photo" {
			image_ref = 1
		}

		node "effects" "film" {
			grain      = 35
			grain_seed = 7
			vignette   = 40
		}

		node "output" "final" {}

		connect { from = "photo" to = "film" }
		connect { from = "film"  to = "final" }
	`
	files := map[string]string{"film.hcl": workflowHCL}
	inputs := map[uint64]*imagedata.ImageData{
		1: imagedata.Checkerboard(16, 16, 4),
	}

	first := testutil.RenderWorkflow(t, files, inputs)
	require.NoError(t, first.Err)
	second := testutil.RenderWorkflow(t, files, inputs)
	require.NoError(t, second.Err)

	firstPNG, err := os.ReadFile(first.OutPath)
	require.NoError(t, err)
	secondPNG, err := os.ReadFile(second.OutPath)
	require.NoError(t, err)
	assert.Equal(t, firstPNG, secondPNG, "two runs over the same workflow and inputs must produce identical files")
}
