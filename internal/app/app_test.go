package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pixelgridgo/internal/imagedata"
)

const gradeWorkflow = `
workflow {
  name = "grade"
}

node "image" "photo" {
  image_ref = 1
}

node "adjust" "darken" {
  brightness = -100
}

node "output" "final" {}

connect {
  from = "photo"
  to   = "darken"
}

connect {
  from = "darken"
  to   = "final"
}
`

// writeFile drops content into dir under name and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writePNG encodes img into dir under name and returns the full path.
func writePNG(t *testing.T, dir, name string, img *imagedata.ImageData) string {
	t.Helper()
	png, err := imagedata.EncodePNG(img)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, png, 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	t.Run("requires a workflow path outside serve mode", func(t *testing.T) {
		_, err := NewConfig(Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WorkflowPath")
	})

	t.Run("serve mode needs no workflow", func(t *testing.T) {
		cfg, err := NewConfig(Config{Serve: true, ListenAddr: ":8780"})
		require.NoError(t, err)
		assert.True(t, cfg.Serve)
	})

	t.Run("cloud workflows require store credentials", func(t *testing.T) {
		_, err := NewConfig(Config{WorkflowPath: "cloud:wf-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store URL and a key")

		_, err = NewConfig(Config{WorkflowPath: "cloud:wf-1", CloudURL: "https://store.test", CloudKey: "k"})
		assert.NoError(t, err)
	})

	t.Run("cloud reference needs an id", func(t *testing.T) {
		_, err := NewConfig(Config{WorkflowPath: "cloud:", CloudURL: "https://store.test", CloudKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing its id")
	})
}

func TestNewLoadsWorkflow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "grade.hcl", gradeWorkflow)

	var buf bytes.Buffer
	a := New(&buf, &Config{WorkflowPath: path, LogLevel: "debug"})

	wf := a.Workflow()
	require.NotNil(t, wf)
	assert.Equal(t, "grade", wf.Name)
	assert.Equal(t, 3, wf.Graph.Len())
}

func TestNewPanicsOnBadWorkflow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.hcl", "node \"adjust\" {\n")

	assert.Panics(t, func() {
		New(io.Discard, &Config{WorkflowPath: path})
	})
}

func TestRenderWritesOutput(t *testing.T) {
	dir := t.TempDir()
	workflow := writeFile(t, dir, "grade.hcl", gradeWorkflow)
	input := writePNG(t, dir, "red.png", imagedata.Solid(4, 4, [4]byte{255, 0, 0, 255}))
	out := filepath.Join(dir, "out.png")

	var buf bytes.Buffer
	a := New(&buf, &Config{
		WorkflowPath: workflow,
		OutPath:      out,
		Inputs:       map[uint64]string{1: input},
		LogLevel:     "debug",
	})
	require.NoError(t, a.Run(context.Background()))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	img, err := imagedata.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			assert.Equal(t, [4]byte{0, 0, 0, 255}, img.PixelAt(x, y))
		}
	}
	assert.Contains(t, buf.String(), "Render finished.")
}

func TestRenderWithoutWiredOutput(t *testing.T) {
	dir := t.TempDir()
	workflow := writeFile(t, dir, "text.hcl", `
node "text" "greeting" {
  text = "Hello"
}
`)
	out := filepath.Join(dir, "out.png")

	var buf bytes.Buffer
	a := New(&buf, &Config{WorkflowPath: workflow, OutPath: out})
	require.NoError(t, a.Run(context.Background()))

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no file is written without a wired output node")
	assert.Contains(t, buf.String(), "No output produced")
}

func TestRenderCloudWorkflow(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/workflows", r.URL.Path)
		assert.Equal(t, "eq.wf-1", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{
			"id": "wf-1",
			"name": "cloud grade",
			"nodes": [
				{"id": "node-1", "type": "image", "position": {"x": 0, "y": 0}, "data": {"image_ref": 1}},
				{"id": "node-2", "type": "output", "position": {"x": 200, "y": 0}, "data": {}}
			],
			"edges": [
				{"id": "edge-1", "source": "node-1", "target": "node-2", "sourceHandle": "output-0", "targetHandle": "input-0"}
			],
			"is_public": true
		}]`)
	}))
	defer store.Close()

	dir := t.TempDir()
	src := imagedata.Solid(2, 2, [4]byte{0, 255, 0, 255})
	input := writePNG(t, dir, "green.png", src)
	out := filepath.Join(dir, "out.png")

	var buf bytes.Buffer
	a := New(&buf, &Config{
		WorkflowPath: "cloud:wf-1",
		OutPath:      out,
		Inputs:       map[uint64]string{1: input},
		CloudURL:     store.URL,
		CloudKey:     "test-key",
	})
	require.NoError(t, a.Run(context.Background()))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	img, err := imagedata.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, src.Pixels, img.Pixels)
}

func TestLoadEditorWorkflow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "session.json", `{
		"nodes": [
			{"id": "node-1", "type": "image", "position": {"x": 0, "y": 0}, "data": {"image_ref": 2}},
			{"id": "node-2", "type": "output", "position": {"x": 150, "y": 0}, "data": {}}
		],
		"edges": [
			{"id": "edge-1", "source": "node-1", "target": "node-2", "sourceHandle": "output-0", "targetHandle": "input-0"}
		],
		"viewport": {"x": 0, "y": 0, "zoom": 1}
	}`)

	wf, err := loadWorkflow(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "session", wf.Name)
	assert.Equal(t, 2, wf.Graph.Len())
	assert.Len(t, wf.Graph.Connections(), 1)
}

func TestLoadInputs(t *testing.T) {
	t.Run("reads and decodes each referenced image", func(t *testing.T) {
		dir := t.TempDir()
		path := writePNG(t, dir, "a.png", imagedata.Checkerboard(8, 8, 2))

		inputs, err := loadInputs(map[uint64]string{7: path})
		require.NoError(t, err)
		require.Contains(t, inputs, uint64(7))
		assert.Equal(t, 8, inputs[7].Width)
	})

	t.Run("reports missing files", func(t *testing.T) {
		_, err := loadInputs(map[uint64]string{1: "/does/not/exist.png"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read input image")
	})

	t.Run("nil for an empty set", func(t *testing.T) {
		inputs, err := loadInputs(nil)
		require.NoError(t, err)
		assert.Nil(t, inputs)
	})
}
