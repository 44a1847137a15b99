package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeBackends lists the --backend values and a database path for each.
func storeBackends(t *testing.T) map[string]string {
	dir := t.TempDir()
	return map[string]string{
		"sqlite": filepath.Join(dir, "values.db"),
		"badger": filepath.Join(dir, "values.badger"),
	}
}

func TestStoreCommands(t *testing.T) {
	for backend, db := range storeBackends(t) {
		t.Run(backend, func(t *testing.T) {
			flags := []string{"--db", db, "--backend", backend}
			run := func(args ...string) (string, error) {
				t.Helper()
				out, _, err := execute(t, append(append([]string{"store"}, args...), flags...)...)
				return out, err
			}

			out, err := run("list")
			require.NoError(t, err)
			assert.Equal(t, "No values stored.\n", out)

			out, err = run("put", "speed", "tfloat", rampUp)
			require.NoError(t, err)
			assert.Equal(t, "speed\ttfloat\t"+rampUp+"\n", out)

			_, err = run("put", "gear", "tint", "[1@2000-01-02T00:00:00Z, 2@2000-01-02T00:00:10Z]")
			require.NoError(t, err)

			out, err = run("get", "speed")
			require.NoError(t, err)
			assert.Equal(t, "speed\ttfloat\t"+rampUp+"\n", out)

			out, err = run("list")
			require.NoError(t, err)
			assert.Equal(t,
				"gear\ttint\t[1@2000-01-02T00:00:00Z, 2@2000-01-02T00:00:10Z]\n"+
					"speed\ttfloat\t"+rampUp+"\n", out)

			out, err = run("overlapping", "[2000-01-01T00:00:05Z, 2000-01-01T00:01:00Z]")
			require.NoError(t, err)
			assert.Equal(t, "speed\ttfloat\t"+rampUp+"\n", out)

			out, err = run("delete", "speed")
			require.NoError(t, err)
			assert.Equal(t, "Deleted speed\n", out)

			out, err = run("get", "speed")
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "Error [NOT_FOUND]")
		})
	}
}

func TestStorePutReplaceJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "values.db")

	put := func(literal string) RecordResult {
		t.Helper()
		out, _, err := execute(t, "--format", "json", "store", "put", "level", "tint", literal, "--db", db)
		require.NoError(t, err)
		var resp struct {
			Status string       `json:"status"`
			Data   RecordResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Equal(t, "ok", resp.Status)
		return resp.Data
	}

	first := put("1@2000-01-01T00:00:00Z")
	second := put("2@2000-01-01T00:00:00Z")

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "2@2000-01-01T00:00:00Z", second.Literal)
	assert.Equal(t, "tint", second.Type)
}

func TestStoreConfigDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "configured.db")
	path := writeConfig(t, `database: "`+filepath.ToSlash(db)+`"
cache_size: 0`)

	_, _, err := execute(t, "--config", path, "store", "put", "x", "tbool", "t@2000-01-01T00:00:00Z")
	require.NoError(t, err)

	out, _, err := execute(t, "store", "get", "x", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "x\ttbool\tt@2000-01-01T00:00:00Z\n", out)
}

func TestStoreCommandErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "values.db")

	tests := []struct {
		name     string
		args     []string
		exitCode int
		want     string
	}{
		{"unknown backend", []string{"list", "--db", db, "--backend", "etcd"}, ExitCommandError, "unknown store backend"},
		{"bad literal", []string{"put", "x", "tint", "1", "--db", db}, ExitFailure, "Error [SYNTAX]"},
		{"empty name", []string{"put", "", "tint", "1@2000-01-01T00:00:00Z", "--db", db}, ExitCommandError, "name must not be empty"},
		{"bad period", []string{"overlapping", "[x, y]", "--db", db}, ExitCommandError, "Error [INVALID_TIMESTAMP]"},
		{"delete missing", []string{"delete", "ghost", "--db", db}, ExitFailure, "Error [NOT_FOUND]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"store"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, tt.want)
		})
	}
}
