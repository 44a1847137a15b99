// Package config loads tempus configuration from CUE files.
//
// A configuration file is unified with the embedded schema, so unknown
// fields, out-of-range values and type errors are reported with their CUE
// positions before anything is decoded.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/tempus/internal/temporal"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the settings shared by the CLI, the store and the harness.
type Config struct {
	Database      string `json:"database"`
	Backend       string `json:"backend"`
	Format        string `json:"format"`
	DefaultInterp string `json:"default_interp"`
	CacheSize     int64  `json:"cache_size"`
}

// Interp returns DefaultInterp as an interpolation.
func (c Config) Interp() temporal.Interp {
	if c.DefaultInterp == "stepwise" {
		return temporal.Stepwise
	}
	return temporal.Linear
}

// ErrorCode categorizes configuration errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the configuration file does not exist.
	ErrCodeNotFound ErrorCode = "CONFIG_NOT_FOUND"

	// ErrCodeSyntax indicates a file that is not valid CUE.
	ErrCodeSyntax ErrorCode = "CONFIG_SYNTAX"

	// ErrCodeInvalid indicates a file that does not satisfy the schema.
	ErrCodeInvalid ErrorCode = "CONFIG_INVALID"
)

// Error reports a configuration that could not be loaded.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalid returns true if err is, or wraps, a schema violation.
func IsInvalid(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalid
	}
	return false
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg, err := LoadBytes("default.cue", nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return cfg
}

// Load reads and validates the CUE file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadBytes(path, data)
}

// LoadBytes validates CUE source data; name is used in error positions.
func LoadBytes(name string, data []byte) (Config, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile schema: %w", err)
	}

	user := ctx.CompileBytes(data, cue.Filename(name))
	if err := user.Err(); err != nil {
		return Config{}, &Error{Code: ErrCodeSyntax, Message: cueerrors.Details(err, nil)}
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Message: cueerrors.Details(err, nil)}
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Message: cueerrors.Details(err, nil)}
	}
	return cfg, nil
}
