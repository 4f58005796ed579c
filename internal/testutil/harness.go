// Package testutil provides the shared harness for end-to-end render tests:
// it materializes workflow files and PNG fixtures in a temp directory, runs
// a full App against them, and captures the log output.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/pixelgridgo/internal/app"
	"github.com/vk/pixelgridgo/internal/imagedata"
)

// HarnessResult holds the outcomes of an end-to-end render run.
type HarnessResult struct {
	LogOutput string
	Err       error
	OutPath   string
}

// Rendered decodes the PNG the run produced. It fails the test when the
// file is missing, so only call it after asserting a successful run.
func (r *HarnessResult) Rendered(t *testing.T) *imagedata.ImageData {
	t.Helper()
	raw, err := os.ReadFile(r.OutPath)
	require.NoError(t, err, "render output should exist")
	img, err := imagedata.Decode(raw)
	require.NoError(t, err)
	return img
}

// RenderWorkflow provides a standardized harness for running render tests
// using a default background context.
func RenderWorkflow(t *testing.T, files map[string]string, inputs map[uint64]*imagedata.ImageData) *HarnessResult {
	t.Helper()
	return RenderWorkflowWithContext(context.Background(), t, files, inputs)
}

// RenderWorkflowWithContext writes the given workflow files into a temp
// directory, encodes the input images as PNG fixtures, and runs a full App
// over them. files maps relative names to HCL or JSON content; a single
// file is rendered directly, multiple files are loaded as a directory.
func RenderWorkflowWithContext(ctx context.Context, t *testing.T, files map[string]string, inputs map[uint64]*imagedata.ImageData) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	workflowDir := filepath.Join(tmpDir, "workflow")
	require.NoError(t, os.Mkdir(workflowDir, 0o755))

	workflowPath := workflowDir
	for name, content := range files {
		path := filepath.Join(workflowDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		if len(files) == 1 {
			workflowPath = path
		}
	}

	inputPaths := make(map[uint64]string, len(inputs))
	for ref, img := range inputs {
		png, err := imagedata.EncodePNG(img)
		require.NoError(t, err)
		path := filepath.Join(tmpDir, fmt.Sprintf("input-%d.png", ref))
		require.NoError(t, os.WriteFile(path, png, 0o644))
		inputPaths[ref] = path
	}

	outPath := filepath.Join(tmpDir, "out.png")
	config, err := app.NewConfig(app.Config{
		WorkflowPath: workflowPath,
		OutPath:      outPath,
		Inputs:       inputPaths,
		LogLevel:     "debug",
		LogFormat:    "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	var runErr error
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp := app.New(logBuffer, config)
		runErr = testApp.Run(ctx)
	}()

	if panicErr != nil {
		runErr = fmt.Errorf("application startup panicked | %v", panicErr)
	}

	if os.Getenv("PIXELGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		OutPath:   outPath,
	}
}

// RequireLogLine asserts that one of the captured log lines contains every
// given fragment.
func RequireLogLine(t *testing.T, logOutput string, fragments ...string) {
	t.Helper()
	for _, line := range strings.Split(logOutput, "\n") {
		matched := true
		for _, fragment := range fragments {
			if !strings.Contains(line, fragment) {
				matched = false
				break
			}
		}
		if matched {
			return
		}
	}
	t.Fatalf("no log line contains all of %q\nlogs:\n%s", fragments, logOutput)
}
