package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tempus/internal/temporal"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, Config{
		Database:      "tempus.db",
		Backend:       "sqlite",
		Format:        "text",
		DefaultInterp: "linear",
		CacheSize:     1024,
	}, cfg)
	assert.Equal(t, temporal.Linear, cfg.Interp())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempus.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
database:       "/var/lib/tempus/values"
backend:        "badger"
format:         "json"
default_interp: "stepwise"
cache_size:     0
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tempus/values", cfg.Database)
	assert.Equal(t, "badger", cfg.Backend)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, temporal.Stepwise, cfg.Interp())
	assert.Equal(t, int64(0), cfg.CacheSize)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadBytes("partial.cue", []byte(`format: "json"`))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "tempus.db", cfg.Database)
	assert.Equal(t, "sqlite", cfg.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", `colour: "blue"`},
		{"bad enum", `format: "yaml"`},
		{"bad interp", `default_interp: "cubic"`},
		{"wrong type", `cache_size: "big"`},
		{"negative cache", `cache_size: -1`},
		{"empty database", `database: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes(tt.name+".cue", []byte(tt.src))
			require.Error(t, err)
			assert.True(t, IsInvalid(err), "got %v", err)
		})
	}
}

func TestLoad_Syntax(t *testing.T) {
	_, err := LoadBytes("broken.cue", []byte(`format: "json`))
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeSyntax, ce.Code)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeNotFound, ce.Code)
}
