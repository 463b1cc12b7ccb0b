package app

import (
	"errors"
	"fmt"
)

// Output formats for the resolved plan.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config holds everything an App needs to run.
type Config struct {
	// PluginPaths are manifest files or directories searched for manifests.
	PluginPaths []string
	// Format selects how the plan is printed: FormatText or FormatYAML.
	Format string
	// DumpGraph prints the ordering graph as Graphviz DOT instead of the plan.
	DumpGraph bool
	// Execute runs the plan after printing it.
	Execute bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.PluginPaths) == 0 {
		return nil, errors.New("at least one plugin manifest path is required")
	}
	switch cfg.Format {
	case "":
		cfg.Format = FormatText
	case FormatText, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q: must be '%s' or '%s'", cfg.Format, FormatText, FormatYAML)
	}
	return &cfg, nil
}
