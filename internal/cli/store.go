package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/store"
)

// StoreOptions holds flags for the store commands.
type StoreOptions struct {
	*RootOptions
	DBPath  string // overrides the configured database
	Backend string // overrides the configured backend
}

// RecordResult is one stored value in command output.
type RecordResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Literal   string `json:"literal"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (r RecordResult) String() string {
	return fmt.Sprintf("%s\t%s\t%s", r.Name, r.Type, r.Literal)
}

// ListResult is the output of store list and store overlapping.
type ListResult struct {
	Records []RecordResult `json:"records"`
}

func (r ListResult) String() string {
	if len(r.Records) == 0 {
		return "No values stored."
	}
	lines := make([]string, len(r.Records))
	for i, rec := range r.Records {
		lines[i] = rec.String()
	}
	return strings.Join(lines, "\n")
}

// DeleteResult is the output of store delete.
type DeleteResult struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}

func (r DeleteResult) String() string { return fmt.Sprintf("Deleted %s", r.Name) }

func newRecordResult(rec store.Record) RecordResult {
	return RecordResult{
		ID:        rec.ID,
		Name:      rec.Name,
		Type:      rec.BaseType().TemporalName(),
		Literal:   rec.Value.String(),
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func newListResult(records []store.Record) ListResult {
	out := ListResult{Records: make([]RecordResult, len(records))}
	for i, rec := range records {
		out.Records[i] = newRecordResult(rec)
	}
	return out
}

// NewStoreCommand creates the store command group.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Keep temporal values by name",
		Long: `Put, get, list and delete named temporal values in a SQLite or badger
database. The database and backend come from the configuration unless
--db or --backend is given.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "storage backend: sqlite or badger (overrides config)")

	cmd.AddCommand(newStorePutCommand(opts))
	cmd.AddCommand(newStoreGetCommand(opts))
	cmd.AddCommand(newStoreListCommand(opts))
	cmd.AddCommand(newStoreDeleteCommand(opts))
	cmd.AddCommand(newStoreOverlappingCommand(opts))

	return cmd
}

func newStorePutCommand(opts *StoreOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "put <name> <type> <literal>",
		Short:         "Store a temporal value under a name",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			temp, err := opts.parseTemporal(args[1], args[2])
			if err != nil {
				return literalError(formatter, err)
			}
			return opts.withStore(cmd, formatter, func(ctx context.Context, st store.Store) error {
				rec, err := st.Put(ctx, args[0], temp)
				if err != nil {
					return formatter.Fail(ExitCommandError, err)
				}
				formatter.VerboseLog("stored %s as %s", rec.Name, rec.ID)
				return formatter.Success(newRecordResult(rec))
			})
		},
	}
}

func newStoreGetCommand(opts *StoreOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <name>",
		Short:         "Print a stored temporal value",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			return opts.withStore(cmd, formatter, func(ctx context.Context, st store.Store) error {
				rec, err := st.Get(ctx, args[0])
				if err != nil {
					return storeError(formatter, err)
				}
				return formatter.Success(newRecordResult(rec))
			})
		},
	}
}

func newStoreListCommand(opts *StoreOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored temporal values by name",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			return opts.withStore(cmd, formatter, func(ctx context.Context, st store.Store) error {
				records, err := st.List(ctx)
				if err != nil {
					return formatter.Fail(ExitCommandError, err)
				}
				return formatter.Success(newListResult(records))
			})
		},
	}
}

func newStoreDeleteCommand(opts *StoreOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a stored temporal value",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			return opts.withStore(cmd, formatter, func(ctx context.Context, st store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return storeError(formatter, err)
				}
				return formatter.Success(DeleteResult{Name: args[0], Deleted: true})
			})
		},
	}
}

func newStoreOverlappingCommand(opts *StoreOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "overlapping <period>",
		Short:         "List stored values whose time overlaps a period",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			p, err := period.ParsePeriod(args[0])
			if err != nil {
				return formatter.Fail(ExitCommandError, err)
			}
			return opts.withStore(cmd, formatter, func(ctx context.Context, st store.Store) error {
				records, err := st.Overlapping(ctx, p)
				if err != nil {
					return formatter.Fail(ExitCommandError, err)
				}
				return formatter.Success(newListResult(records))
			})
		},
	}
}

// withStore opens the configured store, runs fn and closes the store.
func (o *StoreOptions) withStore(cmd *cobra.Command, formatter *OutputFormatter, fn func(context.Context, store.Store) error) error {
	cfg := o.Settings()
	if o.DBPath != "" {
		cfg.Database = o.DBPath
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}

	logger := o.Logger()
	st, err := store.OpenBackend(cfg, store.WithLogger(logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, fmt.Errorf("failed to open store: %w", err))
	}
	logger.Debug("store opened", "backend", cfg.Backend, "database", cfg.Database, "cache_size", cfg.CacheSize)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runErr := fn(ctx, st)
	if err := st.Close(); err != nil && runErr == nil {
		return formatter.Fail(ExitCommandError, fmt.Errorf("failed to close store: %w", err))
	}
	return runErr
}

// storeError maps a missing name to a failure and anything else to a
// command error.
func storeError(formatter *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitFailure, err)
	}
	return formatter.Fail(ExitCommandError, err)
}
