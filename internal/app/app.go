package app

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/pixelgridgo/internal/ctxlog"
	"github.com/vk/pixelgridgo/internal/flowfile"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	workflow *flowfile.Workflow
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. Local workflows
// are loaded here; a failure to load is a fatal startup error, so New
// panics and main recovers with a clean message.
func New(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}

	// Cloud workflows are fetched at run time; serve mode receives its
	// documents over the wire. Only local paths resolve at startup.
	if !cfg.Serve && !strings.HasPrefix(cfg.WorkflowPath, CloudPrefix) {
		wf, err := loadWorkflow(ctx, cfg.WorkflowPath)
		if err != nil {
			panic(err)
		}
		a.workflow = wf
		logger.Debug("Workflow loaded.", "name", wf.Name, "nodes", wf.Graph.Len())
	}

	return a
}

// Workflow returns the loaded workflow. This is primarily for testing.
func (a *App) Workflow() *flowfile.Workflow {
	return a.workflow
}
