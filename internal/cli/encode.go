package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tempus/internal/codec"
)

// EncodeResult is the output of the encode command.
type EncodeResult struct {
	Hex   string `json:"hex"`
	Bytes int    `json:"bytes"`
}

func (r EncodeResult) String() string { return r.Hex }

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <type> <literal>",
		Short: "Print the binary encoding of a temporal value",
		Long: `Parse a temporal literal and print its binary encoding as hex.

The output can be read back with tempus decode.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			temp, err := rootOpts.parseTemporal(args[0], args[1])
			if err != nil {
				return literalError(formatter, err)
			}
			data := codec.Encode(temp)
			formatter.VerboseLog("encoded %s %s in %d bytes", temp.BaseType().TemporalName(), temp.Subtype(), len(data))
			return formatter.Success(EncodeResult{Hex: hex.EncodeToString(data), Bytes: len(data)})
		},
	}
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a binary temporal value",
		Long: `Decode a hex-encoded binary temporal value, as printed by tempus encode,
and print its literal.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			data, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				msg := fmt.Sprintf("invalid hex input: %v", err)
				_ = formatter.Error(ErrCodeInvalidHex, msg, nil)
				return NewExitError(ExitCommandError, ErrCodeInvalidHex+": "+msg)
			}
			temp, err := codec.Decode(data)
			if err != nil {
				return formatter.Fail(ExitFailure, err)
			}
			result, err := newValueResult(temp, true)
			if err != nil {
				return err
			}
			return formatter.Success(result)
		},
	}
}
