package config

import (
	"github.com/spf13/viper"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultMaxRingSize    = molecule.MaxRingSizeCap
	DefaultBranchRollback = "none"

	DefaultGeneratorMaxDepth = 1

	DefaultMetricsNamespace = "neta"
)

// NewDefaultConfig returns a Config holding every default.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Generator: GeneratorConfig{MaxDepth: DefaultGeneratorMaxDepth},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-value string and size fields.  Booleans and
// generator.max_depth, whose zero values are meaningful, get their defaults
// from setViperDefaults instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}
	if cfg.Engine.MaxRingSize == 0 {
		cfg.Engine.MaxRingSize = DefaultMaxRingSize
	}
	if cfg.Engine.BranchRollback == "" {
		cfg.Engine.BranchRollback = DefaultBranchRollback
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// setViperDefaults registers every key so that NETA_* variables bind even
// without a config file.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("engine.max_ring_size", DefaultMaxRingSize)
	v.SetDefault("engine.branch_rollback", DefaultBranchRollback)
	v.SetDefault("generator.max_depth", DefaultGeneratorMaxDepth)
	v.SetDefault("generator.explicit_hydrogens", false)
	v.SetDefault("generator.include_root_element", false)
	v.SetDefault("fragments.require_origin", false)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.textfile", "")
}
