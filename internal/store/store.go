package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/config"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/temporal"
)

// ErrNotFound is returned when no value is stored under a name.
var ErrNotFound = errors.New("temporal value not found")

// Record is one stored temporal value.
type Record struct {
	ID        string
	Name      string
	Value     temporal.Temporal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaseType returns the base type of the stored value.
func (r Record) BaseType() base.Type { return r.Value.BaseType() }

// Period returns the bounding period of the stored value.
func (r Record) Period() period.Period { return r.Value.Period() }

// Store keeps temporal values by name.
//
// Put replaces any value already stored under the name but keeps its ID and
// creation time. List and Overlapping return records ordered by name and
// return an empty slice, not nil, when nothing matches.
type Store interface {
	Put(ctx context.Context, name string, value temporal.Temporal) (Record, error)
	Get(ctx context.Context, name string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, name string) error
	Overlapping(ctx context.Context, p period.Period) ([]Record, error)
	Close() error
}

// Option configures a backend.
type Option func(*options)

type options struct {
	newID  func() string
	now    func() time.Time
	logger *slog.Logger
}

// WithIDGenerator replaces the UUIDv7 generator used for new records.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithClock replaces time.Now for creation and update times.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.now = fn }
}

// WithLogger sets the logger handed to the storage engine.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{
		newID:  newUUIDv7,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// OpenBackend opens the backend named by cfg.Backend at cfg.Database and
// wraps it in a cache of cfg.CacheSize values.
func OpenBackend(cfg config.Config, opts ...Option) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", "sqlite":
		s, err = Open(cfg.Database, opts...)
	case "badger":
		s, err = OpenBadger(cfg.Database, opts...)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	cached, err := Cached(s, cfg.CacheSize)
	if err != nil {
		s.Close()
		return nil, err
	}
	return cached, nil
}

func validateName(name string) error {
	if name == "" {
		return errors.New("name must not be empty")
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

// overlapping keeps the records whose bounding period overlaps p.
func overlapping(records []Record, p period.Period) []Record {
	out := []Record{}
	for _, r := range records {
		if r.Period().Overlaps(p) {
			out = append(out, r)
		}
	}
	return out
}
