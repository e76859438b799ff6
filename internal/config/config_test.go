package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disorderedmaterials/neta/internal/domain/neta"
	"github.com/disorderedmaterials/neta/internal/testutil"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"ring size too small", func(c *Config) { c.Engine.MaxRingSize = 2 }, "engine.max_ring_size"},
		{"ring size above cap", func(c *Config) { c.Engine.MaxRingSize = 13 }, "engine.max_ring_size"},
		{"bad rollback", func(c *Config) { c.Engine.BranchRollback = "always" }, "engine.branch_rollback"},
		{"snapshot rollback", func(c *Config) { c.Engine.BranchRollback = "snapshot" }, ""},
		{"negative depth", func(c *Config) { c.Generator.MaxDepth = -1 }, "generator.max_depth"},
		{"zero depth", func(c *Config) { c.Generator.MaxDepth = 0 }, ""},
		{"bad namespace when enabled", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Namespace = "ne-ta" }, "metrics.namespace"},
		{"bad namespace when disabled", func(c *Config) { c.Metrics.Namespace = "ne-ta" }, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.CodeConfigInvalid))
		})
	}
}

func TestEngineConfig_DefinitionOptions(t *testing.T) {
	t.Parallel()
	benzene := testutil.Benzene()

	cfg := EngineConfig{MaxRingSize: 5, BranchRollback: "snapshot"}
	d := neta.MustCompile("ring(size=6)", nil, cfg.DefinitionOptions()...)
	assert.Equal(t, neta.RollbackSnapshot, d.Rollback())
	assert.False(t, d.Matches(benzene.Atoms()[0]))

	cfg = EngineConfig{MaxRingSize: 6, BranchRollback: "none"}
	d = neta.MustCompile("ring(size=6)", nil, cfg.DefinitionOptions()...)
	assert.Equal(t, neta.RollbackNone, d.Rollback())
	assert.True(t, d.Matches(benzene.Atoms()[0]))
}

func TestGeneratorConfig_GenerateOptions(t *testing.T) {
	t.Parallel()
	got := GeneratorConfig{MaxDepth: 3, ExplicitHydrogens: true, IncludeRootElement: true}.GenerateOptions()
	assert.Equal(t, neta.GenerateOptions{MaxDepth: 3, ExplicitHydrogens: true, IncludeRootElement: true}, got)
}
