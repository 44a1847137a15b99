package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/tempus/internal/testutil"
)

// testOptions returns deterministic IDs and a clock that starts at
// testutil.Epoch and advances one second per reading.
func testOptions() []Option {
	ids := testutil.NewSequentialIDs()
	clock := testutil.NewDeterministicClock(testutil.Epoch, time.Second)
	return []Option{WithIDGenerator(ids.NewID), WithClock(clock.Now)}
}

// createTestStore creates a new SQLite store in a temporary directory.
func createTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, testOptions()...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBadger creates a new in-memory badger store.
func createTestBadger(t *testing.T) *Badger {
	t.Helper()
	s, err := OpenBadger(InMemory, testOptions()...)
	if err != nil {
		t.Fatalf("OpenBadger() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backends lists every Store implementation the contract tests run against.
var backends = []struct {
	name string
	open func(t *testing.T) Store
}{
	{"sqlite", func(t *testing.T) Store { return createTestStore(t) }},
	{"badger", func(t *testing.T) Store { return createTestBadger(t) }},
	{"cached", func(t *testing.T) Store {
		s, err := Cached(createTestStore(t), 16)
		if err != nil {
			t.Fatalf("Cached() failed: %v", err)
		}
		return s
	}},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t))
		})
	}
}

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
