package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/tempus/internal/codec"
	"github.com/roach88/tempus/internal/temporal"
	"github.com/roach88/tempus/internal/testutil"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}

		var version int
		if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
			t.Fatalf("failed to get user_version: %v", err)
		}
		if version != currentSchemaVersion {
			t.Errorf("iteration %d: user_version = %d, want %d", i, version, currentSchemaVersion)
		}
		s.Close()
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	for name, want := range map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
	} {
		if err := s.verifyPragma(name, want); err != nil {
			t.Error(err)
		}
	}
}

func TestMigrateToV1_AddsPeriodIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	// Simulate a database created before the index existed
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 0"); err != nil {
		t.Fatalf("failed to set user_version: %v", err)
	}
	db.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_temporals_period'",
	).Scan(&name)
	if err != nil {
		t.Errorf("period index not found after migration: %v", err)
	}
}

func TestPut_StoresDerivedColumns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	value := testutil.Seq(t, false, true, temporal.Linear, testutil.Float(0, 0), testutil.Float(10, 10))

	rec, err := s.Put(ctx, "speed", value)
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if rec.ID != "00000000-0000-7000-8000-000000000001" {
		t.Errorf("ID = %q, want the first generated ID", rec.ID)
	}

	var (
		baseType, subtype, literal string
		lower, upper               int64
		lowerInc, upperInc         bool
		data                       []byte
	)
	err = s.db.QueryRow(`
		SELECT base_type, subtype, literal, lower_t, upper_t, lower_inc, upper_inc, data
		FROM temporals WHERE name = ?
	`, "speed").Scan(&baseType, &subtype, &literal, &lower, &upper, &lowerInc, &upperInc, &data)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if baseType != "float" || subtype != "Sequence" {
		t.Errorf("base_type, subtype = %q, %q, want float, Sequence", baseType, subtype)
	}
	if literal != codec.Format(value) {
		t.Errorf("literal = %q, want %q", literal, codec.Format(value))
	}
	if lower != int64(testutil.At(0)) || upper != int64(testutil.At(10)) || lowerInc || !upperInc {
		t.Errorf("period columns = %d %d %v %v, want (%d, %d]", lower, upper, lowerInc, upperInc, testutil.At(0), testutil.At(10))
	}
	if string(data) != string(codec.Encode(value)) {
		t.Error("data column does not hold the binary encoding")
	}
}

func TestGet_CorruptData(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	if _, err := s.Put(ctx, "temp", testutil.Float(1, 0)); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE temporals SET data = x'00' WHERE name = 'temp'`); err != nil {
		t.Fatalf("failed to corrupt row: %v", err)
	}

	_, err := s.Get(ctx, "temp")
	if !codec.IsParseError(err) {
		t.Errorf("Get() error = %v, want a parse error", err)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()
	value := testutil.InstantSet(t, testutil.Text("a", 0), testutil.Text("b", 1))

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := s1.Put(ctx, "labels", value); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	rec, err := s2.Get(ctx, "labels")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !temporal.Equal(rec.Value, value) {
		t.Errorf("Get() = %s, want %s", rec.Value, value)
	}
}
