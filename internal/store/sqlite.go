package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/tempus/internal/codec"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/temporal"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on temporals(lower_t, upper_t)
const currentSchemaVersion = 1

// SQLite stores temporal values in a SQLite database.
// Uses WAL mode for concurrent read access.
type SQLite struct {
	db   *sql.DB
	opts options
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db, opts: buildOptions(opts)}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores value under name, replacing any previous value.
func (s *SQLite) Put(ctx context.Context, name string, value temporal.Temporal) (Record, error) {
	if err := validateName(name); err != nil {
		return Record{}, fmt.Errorf("put: %w", err)
	}

	now := s.opts.now().UTC()
	p := value.Period()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("put: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO temporals
		(id, name, base_type, subtype, data, literal, lower_t, upper_t, lower_inc, upper_inc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			base_type = excluded.base_type,
			subtype = excluded.subtype,
			data = excluded.data,
			literal = excluded.literal,
			lower_t = excluded.lower_t,
			upper_t = excluded.upper_t,
			lower_inc = excluded.lower_inc,
			upper_inc = excluded.upper_inc,
			updated_at = excluded.updated_at
	`,
		s.opts.newID(),
		name,
		value.BaseType().Name(),
		value.Subtype().String(),
		codec.Encode(value),
		codec.Format(value),
		int64(p.Lower),
		int64(p.Upper),
		p.LowerInc,
		p.UpperInc,
		now.UnixMicro(),
		now.UnixMicro(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("put %q: %w", name, err)
	}

	rec, err := scanRecord(tx.QueryRowContext(ctx, `
		SELECT id, name, data, created_at, updated_at
		FROM temporals
		WHERE name = ?
	`, name))
	if err != nil {
		return Record{}, fmt.Errorf("put %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("put %q: commit: %w", name, err)
	}
	return rec, nil
}

// Get returns the value stored under name.
// Returns ErrNotFound if there is none.
func (s *SQLite) Get(ctx context.Context, name string) (Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, `
		SELECT id, name, data, created_at, updated_at
		FROM temporals
		WHERE name = ?
	`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, notFound(name)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %q: %w", name, err)
	}
	return rec, nil
}

// List returns every stored value ordered by name.
func (s *SQLite) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, data, created_at, updated_at
		FROM temporals
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query temporals: %w", err)
	}
	return collect(rows)
}

// Overlapping returns the values whose bounding period overlaps p.
// The indexed bounds narrow the scan; bound inclusivity is checked after
// decoding.
func (s *SQLite) Overlapping(ctx context.Context, p period.Period) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, data, created_at, updated_at
		FROM temporals
		WHERE lower_t <= ? AND upper_t >= ?
		ORDER BY name COLLATE BINARY ASC
	`, int64(p.Upper), int64(p.Lower))
	if err != nil {
		return nil, fmt.Errorf("query overlapping: %w", err)
	}
	records, err := collect(rows)
	if err != nil {
		return nil, err
	}
	return overlapping(records, p), nil
}

// Delete removes the value stored under name.
// Returns ErrNotFound if there is none.
func (s *SQLite) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM temporals WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec              Record
		data             []byte
		created, updated int64
	)
	if err := row.Scan(&rec.ID, &rec.Name, &data, &created, &updated); err != nil {
		return Record{}, err
	}
	value, err := codec.Decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("decode %q: %w", rec.Name, err)
	}
	rec.Value = value
	rec.CreatedAt = time.UnixMicro(created).UTC()
	rec.UpdatedAt = time.UnixMicro(updated).UTC()
	return rec, nil
}

func collect(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate temporals: %w", err)
	}
	return records, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes the bounding period columns used by Overlapping.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_temporals_period
		ON temporals(lower_t, upper_t)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLite) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
