// Package config defines the configuration of the neta tool: plain data
// types, defaults and validation, loaded with viper from a YAML file and
// NETA_* environment variables.
package config

import (
	"regexp"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
	"github.com/disorderedmaterials/neta/internal/domain/neta"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sections
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig holds logger parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// EngineConfig holds matcher parameters applied to every compiled definition.
type EngineConfig struct {
	// MaxRingSize bounds ring searches; at most molecule.MaxRingSizeCap.
	MaxRingSize int `mapstructure:"max_ring_size"`

	// BranchRollback is "none" or "snapshot".
	BranchRollback string `mapstructure:"branch_rollback"`
}

// GeneratorConfig mirrors neta.GenerateOptions.
type GeneratorConfig struct {
	MaxDepth           int  `mapstructure:"max_depth"`
	ExplicitHydrogens  bool `mapstructure:"explicit_hydrogens"`
	IncludeRootElement bool `mapstructure:"include_root_element"`
}

// FragmentsConfig holds fragment discovery parameters.
type FragmentsConfig struct {
	RequireOrigin bool `mapstructure:"require_origin"`
}

// MetricsConfig holds metric collection parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`

	// Textfile, when set, receives a snapshot of the registry after each
	// command in the node-exporter textfile format.
	Textfile string `mapstructure:"textfile"`
}

// Config is the root configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Fragments FragmentsConfig `mapstructure:"fragments"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Conversion
// ─────────────────────────────────────────────────────────────────────────────

// DefinitionOptions returns the compile options for the engine section.  It
// assumes Validate has passed.
func (c EngineConfig) DefinitionOptions() []neta.Option {
	rb, _ := neta.ParseRollbackStrategy(c.BranchRollback)
	return []neta.Option{neta.WithRollback(rb), neta.WithMaxRingSize(c.MaxRingSize)}
}

// GenerateOptions returns the generator section as neta options.
func (c GeneratorConfig) GenerateOptions() neta.GenerateOptions {
	return neta.GenerateOptions{
		MaxDepth:           c.MaxDepth,
		ExplicitHydrogens:  c.ExplicitHydrogens,
		IncludeRootElement: c.IncludeRootElement,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

var metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.CodeConfigInvalid, "config: "+format, args...)
}

// Validate returns the first semantic error in c.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Engine.MaxRingSize < molecule.MinRingSize || c.Engine.MaxRingSize > molecule.MaxRingSizeCap {
		return invalid("engine.max_ring_size %d is out of range [%d, %d]",
			c.Engine.MaxRingSize, molecule.MinRingSize, molecule.MaxRingSizeCap)
	}
	if _, ok := neta.ParseRollbackStrategy(c.Engine.BranchRollback); !ok {
		return invalid("engine.branch_rollback %q is invalid; expected none|snapshot", c.Engine.BranchRollback)
	}

	if c.Generator.MaxDepth < 0 {
		return invalid("generator.max_depth must be ≥ 0, got %d", c.Generator.MaxDepth)
	}

	if c.Metrics.Enabled && !metricNamespace.MatchString(c.Metrics.Namespace) {
		return invalid("metrics.namespace %q is not a valid metric name prefix", c.Metrics.Namespace)
	}
	return nil
}
