package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rampUp   = "[0@2000-01-01T00:00:00Z, 10@2000-01-01T00:00:10Z]"
	rampDown = "[10@2000-01-01T00:00:00Z, 0@2000-01-01T00:00:10Z]"
)

func TestParseCommand(t *testing.T) {
	out, _, err := execute(t, "parse", "tfloat", "[1.5@2000-01-01 00:00:00, 2@2000-01-01T00:00:10Z)")
	require.NoError(t, err)
	assert.Equal(t, "[1.5@2000-01-01T00:00:00Z, 2@2000-01-01T00:00:10Z)\n", out)
}

func TestParseCommandJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "parse", "tint", "{1@2000-01-01T00:00:00Z, 2@2000-01-01T00:00:05Z}")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Literal     string         `json:"literal"`
			Value       map[string]any `json:"value"`
			Fingerprint string         `json:"fingerprint"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "{1@2000-01-01T00:00:00Z, 2@2000-01-01T00:00:05Z}", resp.Data.Literal)
	assert.Equal(t, "tint", resp.Data.Value["type"])
	assert.Equal(t, "InstantSet", resp.Data.Value["subtype"])
	assert.Equal(t, []any{1.0, 2.0}, resp.Data.Value["values"])
	assert.Len(t, resp.Data.Fingerprint, 64)
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		code     string
		exitCode int
	}{
		{"unknown type", []string{"tnpoint", "1@2000-01-01T00:00:00Z"}, "UNKNOWN_TYPE", ExitCommandError},
		{"syntax", []string{"tint", "x@2000-01-01T00:00:00Z"}, "SYNTAX", ExitFailure},
		{"unsorted", []string{"tint", "[2@2000-01-01T00:00:05Z, 1@2000-01-01T00:00:00Z]"}, "UNSORTED_INPUT", ExitFailure},
		{"end value", []string{"tint", "[1@2000-01-01T00:00:00Z, 2@2000-01-01T00:00:05Z)"}, "INVALID_END_VALUE", ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"parse"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestParseCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "parse", "tint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg")
}

func TestAtCommand(t *testing.T) {
	out, _, err := execute(t, "at", "tfloat", rampUp, "2000-01-01T00:00:02.5Z")
	require.NoError(t, err)
	assert.Equal(t, "2.5\n", out)

	out, _, err = execute(t, "at", "ttext", `{"a"@2000-01-01T00:00:00Z, "b"@2000-01-01T00:00:05Z}`, "946684805000000")
	require.NoError(t, err)
	assert.Equal(t, "\"b\"\n", out)
}

func TestAtCommandJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "at", "tint", "[1@2000-01-01T00:00:00Z, 3@2000-01-01T00:00:05Z]", "2000-01-01T00:00:04Z")
	require.NoError(t, err)

	var resp struct {
		Data AtResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, AtResult{Timestamp: "2000-01-01T00:00:04Z", Value: "1"}, resp.Data)
}

func TestAtCommandUndefined(t *testing.T) {
	out, _, err := execute(t, "at", "tint", "5@2000-01-01T00:00:00Z", "2000-01-01T00:00:01Z")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [UNDEFINED]")
}

func TestAtCommandBadTimestamp(t *testing.T) {
	_, _, err := execute(t, "at", "tint", "5@2000-01-01T00:00:00Z", "yesterday")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "INVALID_TIMESTAMP")
}

func TestRestrictCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "at period",
			args: []string{"tfloat", rampUp, "[2000-01-01T00:00:02Z, 2000-01-01T00:00:05Z)"},
			want: "[2@2000-01-01T00:00:02Z, 5@2000-01-01T00:00:05Z)",
		},
		{
			name: "minus period",
			args: []string{"tfloat", rampUp, "[2000-01-01T00:00:02Z, 2000-01-01T00:00:05Z)", "--minus"},
			want: "{[0@2000-01-01T00:00:00Z, 2@2000-01-01T00:00:02Z), [5@2000-01-01T00:00:05Z, 10@2000-01-01T00:00:10Z]}",
		},
		{
			name: "disjoint",
			args: []string{"tfloat", rampUp, "[2000-01-02T00:00:00Z, 2000-01-03T00:00:00Z]"},
			want: "empty",
		},
		{
			name: "minus covering",
			args: []string{"tfloat", rampUp, "[2000-01-01T00:00:00Z, 2000-01-01T00:00:10Z]", "--minus"},
			want: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"restrict"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestRestrictCommandEmptyJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "restrict", "tfloat", rampUp, "[2000-01-02T00:00:00Z, 2000-01-03T00:00:00Z]")
	require.NoError(t, err)

	var resp struct {
		Data ValueResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Empty)
	assert.Empty(t, resp.Data.Literal)
}

func TestRestrictCommandBadPeriod(t *testing.T) {
	out, _, err := execute(t, "restrict", "tfloat", rampUp, "[2000-01-01T00:00:05Z, 2000-01-01T00:00:02Z]")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [INVALID_PERIOD]")
}

func TestSyncCommandCrossings(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "sync", "tfloat", rampUp, rampDown, "--mode", "crossings")
	require.NoError(t, err)

	var resp struct {
		Data SyncResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "crossings", resp.Data.Mode)
	assert.Equal(t, "[0@2000-01-01T00:00:00Z, 5@2000-01-01T00:00:05Z, 10@2000-01-01T00:00:10Z]", resp.Data.A.Literal)
	assert.Equal(t, "[10@2000-01-01T00:00:00Z, 5@2000-01-01T00:00:05Z, 0@2000-01-01T00:00:10Z]", resp.Data.B.Literal)
	assert.Equal(t, []string{"2000-01-01T00:00:05Z"}, resp.Data.Crossings)
}

func TestSyncCommandText(t *testing.T) {
	out, _, err := execute(t, "sync", "tfloat", rampUp, rampDown)
	require.NoError(t, err)
	assert.Equal(t, "a: "+rampUp+"\nb: "+rampDown+"\n", out)
}

func TestSyncCommandIntersectInstants(t *testing.T) {
	out, _, err := execute(t, "sync", "tfloat", rampUp, "{1@2000-01-01T00:00:02Z, 1@2000-01-01T00:00:20Z}")
	require.NoError(t, err)
	assert.Equal(t, "a: {2@2000-01-01T00:00:02Z}\nb: {1@2000-01-01T00:00:02Z}\n", out)
}

func TestSyncCommandNoOverlap(t *testing.T) {
	out, _, err := execute(t, "sync", "tfloat", rampUp, "[1@2000-01-02T00:00:00Z, 2@2000-01-02T00:00:10Z]")
	require.NoError(t, err)
	assert.Equal(t, "empty\n", out)
}

func TestSyncCommandErrors(t *testing.T) {
	t.Run("mode", func(t *testing.T) {
		out, _, err := execute(t, "sync", "tfloat", rampUp, rampDown, "--mode", "zip")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error [INVALID_MODE]")
	})

	t.Run("literal", func(t *testing.T) {
		out, _, err := execute(t, "sync", "tfloat", rampUp, "[oops]")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, out, "Error [SYNTAX]")
	})
}
