package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v2"

	"github.com/roach88/tempus/internal/codec"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/temporal"
)

// InMemory as the badger path keeps the database in memory only.
const InMemory = ":memory:"

const (
	metaPrefix = "meta/"
	dataPrefix = "data/"
)

// Badger stores temporal values in a badger key-value database.
//
// Each value has two keys: meta/<name> holds a JSON document with the ID,
// timestamps and bounding period, and data/<name> holds the binary encoding.
// Both keys are written in one transaction.
type Badger struct {
	db   *badger.DB
	opts options
}

// badgerMeta is the JSON document stored under meta/<name>.
type badgerMeta struct {
	ID        string `json:"id"`
	BaseType  string `json:"base_type"`
	Subtype   string `json:"subtype"`
	Literal   string `json:"literal"`
	Lower     int64  `json:"lower_t"`
	Upper     int64  `json:"upper_t"`
	LowerInc  bool   `json:"lower_inc"`
	UpperInc  bool   `json:"upper_inc"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func (m badgerMeta) period() period.Period {
	return period.Period{
		Lower:    period.Timestamp(m.Lower),
		Upper:    period.Timestamp(m.Upper),
		LowerInc: m.LowerInc,
		UpperInc: m.UpperInc,
	}
}

// OpenBadger opens or creates a badger database in the directory path.
// Pass InMemory to keep nothing on disk.
func OpenBadger(path string, opts ...Option) (*Badger, error) {
	o := buildOptions(opts)

	bopts := badger.DefaultOptions(path)
	if path == InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(badgerLogger{o.logger})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &Badger{db: db, opts: o}, nil
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Put stores value under name, replacing any previous value.
func (b *Badger) Put(ctx context.Context, name string, value temporal.Temporal) (Record, error) {
	if err := validateName(name); err != nil {
		return Record{}, fmt.Errorf("put: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	now := b.opts.now().UTC()
	p := value.Period()
	meta := badgerMeta{
		BaseType:  value.BaseType().Name(),
		Subtype:   value.Subtype().String(),
		Literal:   codec.Format(value),
		Lower:     int64(p.Lower),
		Upper:     int64(p.Upper),
		LowerInc:  p.LowerInc,
		UpperInc:  p.UpperInc,
		UpdatedAt: now.UnixMicro(),
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		prev, err := readMeta(txn, name)
		switch {
		case err == nil:
			meta.ID = prev.ID
			meta.CreatedAt = prev.CreatedAt
		case errors.Is(err, badger.ErrKeyNotFound):
			meta.ID = b.opts.newID()
			meta.CreatedAt = now.UnixMicro()
		default:
			return err
		}

		buf, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(metaPrefix+name), buf); err != nil {
			return err
		}
		return txn.Set([]byte(dataPrefix+name), codec.Encode(value))
	})
	if err != nil {
		return Record{}, fmt.Errorf("put %q: %w", name, err)
	}

	return Record{
		ID:        meta.ID,
		Name:      name,
		Value:     value,
		CreatedAt: time.UnixMicro(meta.CreatedAt).UTC(),
		UpdatedAt: time.UnixMicro(meta.UpdatedAt).UTC(),
	}, nil
}

// Get returns the value stored under name.
// Returns ErrNotFound if there is none.
func (b *Badger) Get(ctx context.Context, name string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	var rec Record
	err := b.db.View(func(txn *badger.Txn) error {
		meta, err := readMeta(txn, name)
		if err != nil {
			return err
		}
		rec, err = readRecord(txn, name, meta)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, notFound(name)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %q: %w", name, err)
	}
	return rec, nil
}

// List returns every stored value ordered by name.
func (b *Badger) List(ctx context.Context) ([]Record, error) {
	return b.scan(ctx, func(badgerMeta) bool { return true })
}

// Overlapping returns the values whose bounding period overlaps p.
// Only the metadata of non-matching values is read.
func (b *Badger) Overlapping(ctx context.Context, p period.Period) ([]Record, error) {
	return b.scan(ctx, func(m badgerMeta) bool { return m.period().Overlaps(p) })
}

// Delete removes the value stored under name.
// Returns ErrNotFound if there is none.
func (b *Badger) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(metaPrefix + name)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(metaPrefix + name)); err != nil {
			return err
		}
		return txn.Delete([]byte(dataPrefix + name))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return notFound(name)
	}
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

// scan walks the metadata keys in name order and loads the values keep accepts.
func (b *Badger) scan(ctx context.Context, keep func(badgerMeta) bool) ([]Record, error) {
	records := []Record{}
	err := b.db.View(func(txn *badger.Txn) error {
		iopts := badger.DefaultIteratorOptions
		iopts.Prefix = []byte(metaPrefix)
		it := txn.NewIterator(iopts)
		defer it.Close()

		for it.Seek(iopts.Prefix); it.ValidForPrefix(iopts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), metaPrefix)

			buf, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var meta badgerMeta
			if err := json.Unmarshal(buf, &meta); err != nil {
				return fmt.Errorf("metadata of %q: %w", name, err)
			}
			if !keep(meta) {
				continue
			}

			rec, err := readRecord(txn, name, meta)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan temporals: %w", err)
	}
	return records, nil
}

func readMeta(txn *badger.Txn, name string) (badgerMeta, error) {
	item, err := txn.Get([]byte(metaPrefix + name))
	if err != nil {
		return badgerMeta{}, err
	}
	buf, err := item.ValueCopy(nil)
	if err != nil {
		return badgerMeta{}, err
	}
	var meta badgerMeta
	if err := json.Unmarshal(buf, &meta); err != nil {
		return badgerMeta{}, fmt.Errorf("metadata of %q: %w", name, err)
	}
	return meta, nil
}

func readRecord(txn *badger.Txn, name string, meta badgerMeta) (Record, error) {
	item, err := txn.Get([]byte(dataPrefix + name))
	if err != nil {
		return Record{}, err
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return Record{}, err
	}
	value, err := codec.Decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("decode %q: %w", name, err)
	}
	return Record{
		ID:        meta.ID,
		Name:      name,
		Value:     value,
		CreatedAt: time.UnixMicro(meta.CreatedAt).UTC(),
		UpdatedAt: time.UnixMicro(meta.UpdatedAt).UTC(),
	}, nil
}

// badgerLogger forwards badger's printf-style logging to slog. Info and
// debug output from compactions goes to debug level.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(format string, args ...any) {
	b.l.Error(trimLog(format, args), "component", "badger")
}

func (b badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn(trimLog(format, args), "component", "badger")
}

func (b badgerLogger) Infof(format string, args ...any) {
	b.l.Debug(trimLog(format, args), "component", "badger")
}

func (b badgerLogger) Debugf(format string, args ...any) {
	b.l.Debug(trimLog(format, args), "component", "badger")
}

func trimLog(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
