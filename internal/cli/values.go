package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tempus/internal/codec"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/temporal"
)

// ValueResult is the output of commands that produce one temporal value.
type ValueResult struct {
	Literal     string          `json:"literal,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Empty       bool            `json:"empty,omitempty"`
}

func (r ValueResult) String() string {
	if r.Empty {
		return "empty"
	}
	return r.Literal
}

func newValueResult(temp temporal.Temporal, ok bool) (ValueResult, error) {
	if !ok {
		return ValueResult{Empty: true}, nil
	}
	raw, err := codec.MarshalJSON(temp)
	if err != nil {
		return ValueResult{}, err
	}
	return ValueResult{
		Literal:     codec.Format(temp),
		Value:       raw,
		Fingerprint: codec.Fingerprint(temp),
	}, nil
}

// AtResult is the output of the at command.
type AtResult struct {
	Timestamp string `json:"timestamp"`
	Value     string `json:"value"`
}

func (r AtResult) String() string { return r.Value }

// SyncResult is the output of the sync command.
type SyncResult struct {
	Mode      string      `json:"mode"`
	A         ValueResult `json:"a"`
	B         ValueResult `json:"b"`
	Crossings []string    `json:"crossings,omitempty"`
	Empty     bool        `json:"empty,omitempty"`
}

func (r SyncResult) String() string {
	if r.Empty {
		return "empty"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "a: %s\nb: %s", r.A, r.B)
	if len(r.Crossings) > 0 {
		fmt.Fprintf(&b, "\ncrossings: %s", strings.Join(r.Crossings, ", "))
	}
	return b.String()
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <type> <literal>",
		Short: "Validate a temporal literal",
		Long: `Parse a temporal literal and print it in canonical form.

With --format json the value is also printed as its JSON object.

Examples:
  tempus parse tfloat '[1@2000-01-01, 3@2000-01-03)'
  tempus parse tint '{1@2000-01-01, 2@2000-01-02}' --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			temp, err := rootOpts.parseTemporal(args[0], args[1])
			if err != nil {
				return literalError(formatter, err)
			}
			rootOpts.Logger().Debug("parsed value",
				"type", temp.BaseType().TemporalName(),
				"subtype", temp.Subtype().String(),
				"instants", temp.NumInstants(),
			)
			result, err := newValueResult(temp, true)
			if err != nil {
				return err
			}
			return formatter.Success(result)
		},
	}
}

// NewAtCommand creates the at command.
func NewAtCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "at <type> <literal> <timestamp>",
		Short: "Print the value at a timestamp",
		Long: `Print the base value a temporal value takes at a timestamp.

Exits with code 1 when the value is not defined at the timestamp.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			temp, err := rootOpts.parseTemporal(args[0], args[1])
			if err != nil {
				return literalError(formatter, err)
			}
			ts, err := period.ParseTimestamp(args[2])
			if err != nil {
				return formatter.Fail(ExitCommandError, err)
			}
			v, ok := temp.ValueAt(ts)
			if !ok {
				msg := fmt.Sprintf("value is not defined at %s", ts)
				_ = formatter.Error(ErrCodeUndefined, msg, nil)
				return NewExitError(ExitFailure, ErrCodeUndefined+": "+msg)
			}
			return formatter.Success(AtResult{Timestamp: ts.String(), Value: v.String()})
		},
	}
}

// RestrictOptions holds flags for the restrict command.
type RestrictOptions struct {
	*RootOptions
	Minus bool // remove the period instead of keeping it
}

// NewRestrictCommand creates the restrict command.
func NewRestrictCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RestrictOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "restrict <type> <literal> <period>",
		Short: "Restrict a temporal value to a period",
		Long: `Keep the part of a temporal value inside a period, or with --minus the
part outside it. Prints "empty" when nothing remains.

Examples:
  tempus restrict tfloat '[0@2000-01-01, 10@2000-01-11]' '[2000-01-03, 2000-01-05)'
  tempus restrict tint '[1@2000-01-01, 1@2000-01-05]' '[2000-01-02, 2000-01-03]' --minus`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			temp, err := opts.parseTemporal(args[0], args[1])
			if err != nil {
				return literalError(formatter, err)
			}
			p, err := period.ParsePeriod(args[2])
			if err != nil {
				return formatter.Fail(ExitCommandError, err)
			}

			var (
				restricted temporal.Temporal
				ok         bool
			)
			if opts.Minus {
				restricted, ok = temporal.MinusPeriod(temp, p)
			} else {
				restricted, ok = temporal.AtPeriod(temp, p)
			}
			result, err := newValueResult(restricted, ok)
			if err != nil {
				return err
			}
			return formatter.Success(result)
		},
	}

	cmd.Flags().BoolVar(&opts.Minus, "minus", false, "remove the period instead of keeping it")

	return cmd
}

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	Mode string // intersect | align | crossings
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync <type> <a> <b>",
		Short: "Synchronize two temporal values",
		Long: `Restrict two temporal values of the same type to their common time and,
with --mode align or crossings, split both so their instants line up.

Modes:
  intersect - restrict both values to the common time
  align     - also split each value at the other's instants
  crossings - also add an instant wherever the values cross`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			mode, ok := temporal.ParseMode(opts.Mode)
			if !ok {
				msg := fmt.Sprintf("invalid mode %q: must be intersect, align or crossings", opts.Mode)
				_ = formatter.Error(ErrCodeInvalidMode, msg, nil)
				return NewExitError(ExitCommandError, ErrCodeInvalidMode+": "+msg)
			}
			a, err := opts.parseTemporal(args[0], args[1])
			if err != nil {
				return literalError(formatter, err)
			}
			b, err := opts.parseTemporal(args[0], args[2])
			if err != nil {
				return literalError(formatter, err)
			}

			synced, ok, err := temporal.Synchronize(a, b, mode)
			if err != nil {
				return formatter.Fail(ExitFailure, err)
			}
			result := SyncResult{Mode: mode.String(), Empty: !ok}
			if ok {
				if result.A, err = newValueResult(synced.A, true); err != nil {
					return err
				}
				if result.B, err = newValueResult(synced.B, true); err != nil {
					return err
				}
				for _, t := range synced.Crossings {
					result.Crossings = append(result.Crossings, t.String())
				}
			}
			return formatter.Success(result)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "intersect", "synchronization mode (intersect|align|crossings)")

	return cmd
}

// literalError reports a literal that does not parse. Unknown type names
// are command errors; malformed or invalid values are failures.
func literalError(formatter *OutputFormatter, err error) error {
	if codec.HasCode(err, codec.ErrCodeUnknownType) {
		return formatter.Fail(ExitCommandError, err)
	}
	return formatter.Fail(ExitFailure, err)
}
