package app

import (
	"errors"
	"strings"
)

// CloudPrefix marks a workflow path that names a row in the cloud store
// instead of a file on disk.
const CloudPrefix = "cloud:"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPath string            // .hcl file, directory of .hcl files, .json editor export, or cloud:<id>
	OutPath      string            // rendered PNG destination
	Inputs       map[uint64]string // source image paths keyed by reference

	Serve      bool
	ListenAddr string

	CloudURL string
	CloudKey string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkflowPath == "" && !cfg.Serve {
		return nil, errors.New("WorkflowPath is a required configuration field unless serve mode is enabled")
	}
	if strings.HasPrefix(cfg.WorkflowPath, CloudPrefix) {
		if cfg.CloudURL == "" || cfg.CloudKey == "" {
			return nil, errors.New("cloud workflows require both a store URL and a key")
		}
		if strings.TrimPrefix(cfg.WorkflowPath, CloudPrefix) == "" {
			return nil, errors.New("cloud workflow reference is missing its id")
		}
	}
	return &cfg, nil
}
