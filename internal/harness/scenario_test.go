package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenario = `
name: test_scenario
description: "Test scenario for validation"
type: tfloat
inputs:
  a: "[1@2000-01-01T00:00:00Z, 2@2000-01-01T00:00:05Z]"
  flags:
    type: tbool
    literal: "{t@2000-01-01T00:00:00Z}"
steps:
  - op: value_at
    input: a
    args: { at: "2000-01-01T00:00:01Z" }
    save: ignored
  - op: encode_roundtrip
    input: flags
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validScenario), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "tfloat", scenario.Type)
	assert.Equal(t, Input{Literal: "[1@2000-01-01T00:00:00Z, 2@2000-01-01T00:00:05Z]"}, scenario.Inputs["a"])
	assert.Equal(t, Input{Type: "tbool", Literal: "{t@2000-01-01T00:00:00Z}"}, scenario.Inputs["flags"])
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, OpValueAt, scenario.Steps[0].Op)
	assert.Equal(t, "2000-01-01T00:00:01Z", scenario.Steps[0].Args["at"])
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadDir_SortedByFileName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml"} {
		src := "name: " + name[:1] + validScenario[len("\nname: test_scenario"):]
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, "b", scenarios[1].Name)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "name: x\ndescription: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\nstep: []\n", "field step not found"},
		{"missing name", "description: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: normalize, input: a}]\n", "name is required"},
		{"missing description", "name: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: normalize, input: a}]\n", "description is required"},
		{"no inputs", "name: x\ndescription: x\ntype: tint\nsteps: [{op: normalize, input: a}]\n", "inputs are required"},
		{"no steps", "name: x\ndescription: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\n", "steps are required"},
		{"unknown type", "name: x\ndescription: x\ntype: tcomplex\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: normalize, input: a}]\n", `unknown type "tcomplex"`},
		{"no type", "name: x\ndescription: x\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: normalize, input: a}]\n", "type is required"},
		{"unknown op", "name: x\ndescription: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: smooth, input: a}]\n", `unknown op "smooth"`},
		{"undefined input", "name: x\ndescription: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: normalize, input: b}]\n", `input "b" is not defined`},
		{"save used before defined", "name: x\ndescription: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: normalize, input: n}, {op: normalize, input: a, save: n}]\n", `input "n" is not defined`},
		{"missing arg", "name: x\ndescription: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: value_at, input: a}]\n", "requires args.at"},
		{"synchronize without with", "name: x\ndescription: x\ntype: tint\ninputs: {a: '1@2000-01-01'}\nsteps: [{op: synchronize, input: a}]\n", "requires with"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
