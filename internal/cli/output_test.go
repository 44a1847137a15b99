package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/codec"
	"github.com/roach88/tempus/internal/config"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("SYNTAX", "value does not parse", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "SYNTAX", resp.Error.Code)
	assert.Equal(t, "value does not parse", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"period": "[2000-01-02, 2000-01-01]"}
	err := formatter.Error("INVALID_PERIOD", "lower bound after upper bound", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("1@2000-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1@2000-01-01T00:00:00Z")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("SYNTAX", "value does not parse", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [SYNTAX]")
	assert.Contains(t, buf.String(), "value does not parse")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"offset": "4"}
	err := formatter.Error("SYNTAX", "value does not parse", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [SYNTAX]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Processing %s", "tfloat")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Processing tfloat")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status: "ok",
		Data:   map[string]int{"count": 42},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "UNSORTED_INPUT",
		Message: "timestamps out of order",
		Details: []string{"index 1"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "UNSORTED_INPUT", decoded.Code)
	assert.Equal(t, "timestamps out of order", decoded.Message)
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	_, parseErr := codec.ParseAs(base.TypeInt, "x@2000-01-01")
	require.Error(t, parseErr)

	err := formatter.Fail(ExitFailure, parseErr)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, codec.IsParseError(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SYNTAX", resp.Error.Code)
}

func TestErrorCode(t *testing.T) {
	_, periodErr := period.New(10, 5, true, true)
	require.Error(t, periodErr)
	_, cfgErr := config.LoadBytes("bad.cue", []byte(`format: "xml"`))
	require.Error(t, cfgErr)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"period", periodErr, "INVALID_PERIOD"},
		{"config", cfgErr, "CONFIG_INVALID"},
		{"not found", fmt.Errorf("get: %w", store.ErrNotFound), ErrCodeNotFound},
		{"generic", errors.New("boom"), ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad args")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure, "failed"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitCommandError, "open", store.ErrNotFound)
	assert.Equal(t, "open: "+store.ErrNotFound.Error(), wrapped.Error())
	assert.ErrorIs(t, wrapped, store.ErrNotFound)
}
