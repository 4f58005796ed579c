package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/pixelgridgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// inputFlags collects repeatable -input flags of the form <ref>=<path>.
type inputFlags map[uint64]string

func (f inputFlags) String() string {
	parts := make([]string, 0, len(f))
	for ref, path := range f {
		parts = append(parts, fmt.Sprintf("%d=%s", ref, path))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (f inputFlags) Set(value string) error {
	ref, path, ok := strings.Cut(value, "=")
	if !ok || path == "" {
		return fmt.Errorf("expected <ref>=<path>, got %q", value)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(ref), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid image reference %q", ref)
	}
	f[n] = path
	return nil
}

// Parse processes command-line arguments into a validated app config. A
// help request surfaces as flag.ErrHelp; other failures carry an exit code
// via ExitError.
func Parse(args []string, output io.Writer) (*app.Config, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pixelgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
PixelGrid - a node-graph image compositor.

Usage:
  pixelgrid [options] [WORKFLOW]

Arguments:
  WORKFLOW
    Path to a workflow .hcl file, a directory of .hcl files, a .json
    editor export, or cloud:<id> to fetch a stored workflow.

Options:
`)
		flagSet.PrintDefaults()
	}

	inputs := inputFlags{}
	outFlag := flagSet.String("out", "out.png", "Path for the rendered PNG.")
	flagSet.Var(inputs, "input", "Source image as <ref>=<path>. Repeatable.")
	serveFlag := flagSet.Bool("serve", false, "Run the live render server instead of a one-shot render.")
	listenFlag := flagSet.String("listen", ":8780", "Address for the render server to listen on.")
	cloudURLFlag := flagSet.String("cloud-url", "", "Base URL of the cloud workflow store.")
	cloudKeyFlag := flagSet.String("cloud-key", "", "API key for the cloud workflow store.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Workflow path determined.", "path", path)

	if path == "" && !*serveFlag {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, flag.ErrHelp
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		WorkflowPath: path,
		OutPath:      *outFlag,
		Inputs:       inputs,
		Serve:        *serveFlag,
		ListenAddr:   *listenFlag,
		CloudURL:     *cloudURLFlag,
		CloudKey:     *cloudKeyFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, nil
}
