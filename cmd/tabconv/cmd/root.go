package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/tabconv/internal/config"
	"github.com/dbsmedya/tabconv/internal/logger"
	"github.com/dbsmedya/tabconv/internal/parser"
	"github.com/dbsmedya/tabconv/internal/types"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// Exit codes returned by Execute.
const (
	ExitOK         = 0
	ExitParseError = 1
	ExitUsage      = 2
	ExitUnexpected = 99
)

// CLI flags that override config file values
var (
	cfgFile   string
	verbose   bool
	quiet     bool
	logFormat string
	encoding  string
	delimiter string
	dataKey   string
	itemTag   string
	rootTag   string
)

var rootCmd = &cobra.Command{
	Use:   "tabconv",
	Short: "Normalize CSV, JSON and XML files into one table model",
	Long: `tabconv reads tabular data from CSV, JSON and XML files into a uniform
record table and writes it back out in any of the supported formats.

Features:
  - Format chosen by file extension, extra extensions mapped in config
  - CSV delimiter, quote and encoding control
  - JSON data-key unwrapping, XML item and container selection
  - CSV, JSON, XML and YAML output
  - Post-conversion verification (count and SHA256)`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	code := exitCode(err)

	switch code {
	case ExitOK:
	case ExitUsage:
		rootCmd.PrintErrln(color.Red.Sprint("Error: ") + err.Error())
		rootCmd.PrintErrf("Run '%s --help' for usage.\n", rootCmd.CommandPath())
	case ExitParseError:
		rootCmd.PrintErrln(color.Red.Sprint("Error: ") + err.Error())
	default:
		rootCmd.PrintErrln(color.Red.Sprint("Unexpected error: ") + fmt.Sprintf("%+v", err))
	}
	return code
}

// usageError marks a command-line mistake.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	var uerr usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &uerr):
		return ExitUsage
	// cobra reports unknown subcommands with a plain error
	case strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	case errors.Is(err, parser.ErrParse):
		return ExitParseError
	default:
		return ExitUnexpected
	}
}

// usageArgs wraps a positional argument validator so its errors count as
// usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (defaults are used when empty)")

	// Logging overrides
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Verbose output (debug logs)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"Quiet output (error logs only)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Parsing overrides
	rootCmd.PersistentFlags().StringVar(&encoding, "encoding", "",
		"Input encoding (utf-8, latin-1, cp1252, ...)")
	rootCmd.PersistentFlags().StringVar(&delimiter, "delimiter", "",
		"CSV field delimiter")
	rootCmd.PersistentFlags().StringVar(&dataKey, "data-key", "",
		"JSON/YAML key holding the record array")
	rootCmd.PersistentFlags().StringVar(&itemTag, "item-tag", "",
		"XML tag of the record elements")
	rootCmd.PersistentFlags().StringVar(&rootTag, "root-tag", "",
		"XML element holding the records")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	return config.Overrides{
		Verbose:   verbose,
		Quiet:     quiet,
		LogFormat: logFormat,
		Encoding:  encoding,
		Delimiter: delimiter,
		DataKey:   dataKey,
		RootTag:   rootTag,
		ItemTag:   itemTag,
	}
}

// environment is what every command needs after flag handling.
type environment struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *parser.Registry
}

// loadEnvironment loads and validates the configuration, applies flag
// overrides, builds the logger and the format registry.
func loadEnvironment() (*environment, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, usageError{fmt.Errorf("invalid configuration: %w", err)}
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry := parser.NewRegistry(log)
	registry.Register(".yaml", parser.NewYAMLAdapter)
	registry.Register(".yml", parser.NewYAMLAdapter)
	if err := registry.RegisterAliases(cfg.Formats); err != nil {
		return nil, usageError{fmt.Errorf("invalid format alias: %w", err)}
	}

	return &environment{cfg: cfg, log: log, registry: registry}, nil
}

// parseFile resolves the adapter for path and parses it with the configured
// options.
func (e *environment) parseFile(path string) (*types.Table, error) {
	adapter, err := e.registry.Get(path)
	if err != nil {
		return nil, err
	}

	opts := e.registry.OptionsFor(path, parser.OptionsFromConfig(e.cfg.Parsing, adapter.Format()))
	return adapter.Parse(path, opts)
}
