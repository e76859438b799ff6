package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/disorderedmaterials/neta/pkg/errors"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "NETA"

// newViper returns a viper instance with YAML input, NETA_ env binding and a
// "." → "_" key replacer, so that engine.max_ring_size resolves to
// NETA_ENGINE_MAX_RING_SIZE.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setViperDefaults(v)
	return v
}

// Load reads configPath when it is non-empty, merges NETA_* overrides, applies
// defaults and validates.  An empty path is LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return LoadFromFile(configPath)
}

// LoadFromFile reads the YAML file at configPath.
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.CodeFileReadFailed, "config: failed to read config file").
			WithDetail("path=" + configPath)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from defaults and NETA_* variables only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state, applies defaults and
// validates.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "config: failed to unmarshal configuration")
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error, for main.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}
