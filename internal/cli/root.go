package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/codec"
	"github.com/roach88/tempus/internal/config"
	"github.com/roach88/tempus/internal/temporal"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // path to a tempus.cue file

	settings *config.Config
	logger   *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tempus CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tempus",
		Short: "tempus - temporal values",
		Long: `Work with temporal values: values that change over time.

Parse and print temporal literals, restrict them to periods, synchronize
two values, convert to and from the binary encoding, keep values in a
store and run conformance scenarios.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "configuration file (CUE)")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewAtCommand(opts))
	cmd.AddCommand(NewRestrictCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewStoreCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup loads the configuration and applies the global flags over it.
// Flags given on the command line win over the file.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if o.Config != "" {
		loaded, err := config.Load(o.Config)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("format") {
		cfg.Format = o.Format
	} else {
		o.Format = cfg.Format
	}
	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	o.settings = &cfg
	return nil
}

// Settings returns the loaded configuration, or the defaults when the root
// command did not run.
func (o *RootOptions) Settings() config.Config {
	if o.settings == nil {
		return config.Default()
	}
	return *o.settings
}

// Logger returns the command logger. Commands built without a root log nowhere.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

// parseTemporal parses a literal of the named type. Sequence literals of
// continuous types without an interpolation prefix take the configured
// default interpolation.
func (o *RootOptions) parseTemporal(typeName, literal string) (temporal.Temporal, error) {
	typ, ok := base.NewRegistry().Lookup(typeName)
	if !ok {
		return nil, &codec.ParseError{Code: codec.ErrCodeUnknownType, Message: fmt.Sprintf("unknown type %q", typeName)}
	}
	if typ.Continuous() && o.Settings().Interp() == temporal.Stepwise && isSequenceLiteral(literal) {
		literal = temporal.InterpPrefix + literal
	}
	return codec.ParseAs(typ, literal)
}

// isSequenceLiteral reports whether s is an unprefixed sequence or
// sequence set literal.
func isSequenceLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	switch s[0] {
	case '[', '(':
		return true
	case '{':
		rest := strings.TrimSpace(s[1:])
		return rest != "" && (rest[0] == '[' || rest[0] == '(')
	}
	return false
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
