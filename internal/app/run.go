package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/pixelgridgo/internal/ctxlog"
	"github.com/vk/pixelgridgo/internal/executor"
	"github.com/vk/pixelgridgo/internal/imagedata"
)

// Run executes the main application logic for the configured mode.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Serve {
		return a.serve(ctx)
	}
	if err := a.render(ctx); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// render evaluates the workflow graph and writes the resulting PNG.
func (a *App) render(ctx context.Context) error {
	wf := a.workflow
	if wf == nil {
		id := strings.TrimPrefix(a.config.WorkflowPath, CloudPrefix)
		loaded, err := a.loadCloudWorkflow(ctx, id)
		if err != nil {
			return err
		}
		wf = loaded
	}

	inputs, err := loadInputs(a.config.Inputs)
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Starting render.", "workflow", wf.Name, "nodes", wf.Graph.Len(), "inputs", len(inputs))

	img, err := executor.New().Execute(ctx, wf.Graph, inputs)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if img == nil {
		// No wired output node. Not an error: the workflow simply produces
		// no image, so no file is written.
		a.logger.Warn("No output produced, the graph has no wired output node.")
		return nil
	}

	png, err := imagedata.EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.config.OutPath, png, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", a.config.OutPath, err)
	}

	a.logger.Info("🏁 Render finished.", "out", a.config.OutPath, "width", img.Width, "height", img.Height)
	return nil
}

// loadInputs reads and decodes the source images named on the command line,
// keyed by the reference their image nodes carry.
func loadInputs(paths map[uint64]string) (map[uint64]*imagedata.ImageData, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	inputs := make(map[uint64]*imagedata.ImageData, len(paths))
	for ref, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input image %s: %w", path, err)
		}
		img, err := imagedata.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode input image %s: %w", path, err)
		}
		inputs[ref] = img
	}
	return inputs, nil
}
