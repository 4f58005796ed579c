package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/pixelgridgo/internal/cloud"
	"github.com/vk/pixelgridgo/internal/compat"
	"github.com/vk/pixelgridgo/internal/ctxlog"
	"github.com/vk/pixelgridgo/internal/flowfile"
)

// loadWorkflow reads a workflow from disk, dispatching on the path shape:
// .json files hold React-Flow editor exports, everything else goes through
// the HCL loader, which accepts a single file or a directory.
func loadWorkflow(ctx context.Context, path string) (*flowfile.Workflow, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadEditorWorkflow(ctx, path)
	}
	return flowfile.Load(ctx, path)
}

// loadEditorWorkflow decodes a React-Flow JSON export into a workflow named
// after the file.
func loadEditorWorkflow(ctx context.Context, path string) (*flowfile.Workflow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading editor workflow.", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file %s: %w", path, err)
	}
	doc, err := compat.Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	g, _, err := doc.ToGraph()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &flowfile.Workflow{Name: name, Graph: g}, nil
}

// loadCloudWorkflow fetches a workflow row from the store and decodes its
// editor payload.
func (a *App) loadCloudWorkflow(ctx context.Context, id string) (*flowfile.Workflow, error) {
	a.logger.Info("Fetching workflow from cloud store.", "workflowID", id)

	client := cloud.New(a.config.CloudURL, a.config.CloudKey)
	defer client.Close()

	row, err := client.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := row.Document()
	if err != nil {
		return nil, err
	}
	g, _, err := doc.ToGraph()
	if err != nil {
		return nil, err
	}
	return &flowfile.Workflow{Name: row.Name, Graph: g}, nil
}
