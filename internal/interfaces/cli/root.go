package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/disorderedmaterials/neta/internal/application/patterns"
	"github.com/disorderedmaterials/neta/internal/config"
	"github.com/disorderedmaterials/neta/internal/infrastructure/monitoring/logging"
	prom "github.com/disorderedmaterials/neta/internal/infrastructure/monitoring/prometheus"
	"github.com/disorderedmaterials/neta/internal/infrastructure/species"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Service      patterns.Service
	Metrics      prom.MetricsCollector
	OutputFormat string
	Verbose      bool
}

// ServiceBuilder constructs the pattern service once configuration and the
// logger are ready.  The returned collector is nil when metrics are disabled.
type ServiceBuilder func(cfg *config.Config, logger logging.Logger) (patterns.Service, prom.MetricsCollector, error)

// DefaultServiceBuilder wires the YAML species loader, the configured engine
// options and, when enabled, a metrics collector.
func DefaultServiceBuilder(cfg *config.Config, logger logging.Logger) (patterns.Service, prom.MetricsCollector, error) {
	var (
		collector prom.MetricsCollector
		metrics   *prom.NETAMetrics
	)
	if cfg.Metrics.Enabled {
		c, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: cfg.Metrics.Namespace}, logger)
		if err != nil {
			return nil, nil, err
		}
		collector, metrics = c, prom.NewNETAMetrics(c)
	}

	opts := cfg.Engine.DefinitionOptions()
	loader := species.NewLoader(logger, opts...)
	svc := patterns.NewService(loader, patterns.Config{
		DefinitionOptions: opts,
		Generate:          cfg.Generator.GenerateOptions(),
		RequireOrigin:     cfg.Fragments.RequireOrigin,
	}, metrics, logger)
	return svc, collector, nil
}

// NewRootCommand creates the root command with all global flags and
// subcommands.  A nil build uses DefaultServiceBuilder.
func NewRootCommand(build ServiceBuilder) *cobra.Command {
	if build == nil {
		build = DefaultServiceBuilder
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "neta",
		Short: "Match, generate and assign NETA atom environment definitions",
		Long: "neta compiles NETA definitions, which describe the bonded environment of an atom,\n" +
			"and evaluates them against species read from YAML files.  It can generate a\n" +
			"definition from an existing atom, assign forcefield atom types and locate\n" +
			"fragments with local axes.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, build)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPostRun(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./neta.yaml, then ~/.neta/config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, yaml, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		NewCheckCmd(),
		NewMatchCmd(),
		NewGenerateCmd(),
		NewAssignCmd(),
		NewFragmentsCmd(),
	)
	return cmd
}

// persistentPreRun initializes config, logger and service, then stores
// CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, build ServiceBuilder) error {
	switch strings.ToLower(opts.OutputFormat) {
	case OutputText, OutputJSON, OutputYAML, OutputTable:
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown output format %q", opts.OutputFormat))
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg, opts)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	svc, collector, err := build(cfg, logger)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Service:      svc,
		Metrics:      collector,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Verbose:      opts.Verbose,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// persistentPostRun writes the metrics snapshot, if configured, and flushes
// the logger.
func persistentPostRun(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if cliCtx.Metrics != nil && cliCtx.Config.Metrics.Textfile != "" {
		if err := cliCtx.Metrics.WriteToTextfile(cliCtx.Config.Metrics.Textfile); err != nil {
			return err
		}
	}
	// Sync on stderr returns EINVAL on some platforms.
	_ = cliCtx.Logger.Sync()
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadFromFile(opts.ConfigPath)
	}

	searchPaths := []string{"./neta.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".neta", "config.yaml"))
	}
	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.LoadFromFile(p)
		}
	}
	return config.LoadFromEnv()
}

// initLogger creates the logger; --verbose wins over --log-level, which wins
// over the config file.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	logCfg := logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	}
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}
	if opts.Verbose {
		logCfg.Level = logging.LevelDebug.String()
	}
	return logging.NewLogger(logCfg)
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand(nil)
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintResult outputs v in the format selected by --output.
func PrintResult(cmd *cobra.Command, v View) error {
	format := OutputText
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}

	switch format {
	case OutputJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v.Payload())
	case OutputYAML:
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(v.Payload()); err != nil {
			return errors.Wrap(err, errors.CodeSerialization, "failed to encode yaml")
		}
		return enc.Close()
	case OutputTable:
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetAutoFormatHeaders(false)
		table.SetHeader(v.TableHeaders())
		table.AppendBulk(v.TableRows())
		table.Render()
		return nil
	default:
		for _, line := range v.Lines() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	}
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}
