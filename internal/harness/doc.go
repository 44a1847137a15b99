// Package harness runs conformance scenarios against the temporal algebra.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	type: tfloat
//	inputs:
//	  a: "[0@2000-01-01T00:00:00Z, 10@2000-01-01T00:00:10Z]"
//	  flags:
//	    type: tbool
//	    literal: "{t@2000-01-01T00:00:00Z}"
//	steps:
//	  - op: at_period
//	    input: a
//	    args: { period: "[2000-01-01T00:00:02Z, 2000-01-01T00:00:05Z)" }
//	    save: part
//	    expect:
//	      output: "[2@2000-01-01T00:00:02Z, 5@2000-01-01T00:00:05Z)"
//	  - op: value_at
//	    input: part
//	    args: { at: "2000-01-01T00:00:06Z" }
//	    expect: { empty: true }
//
// Inputs are literals of the scenario type unless they name their own.
// A step with save stores its temporal result as a new input for later
// steps.
//
// # Operations
//
//   - value_at, at_timestamp: args.at
//   - at_period, minus_period: args.period
//   - at_period_set, minus_period_set: args.periods
//   - synchronize: with, args.mode (intersect, align, crossings)
//   - lift: args.fn, with for binary functions
//   - normalize
//   - ever_eq, always_eq: args.value
//   - encode_roundtrip, store_roundtrip
//
// # Expectations
//
// Expected literals are parsed with the base type of the actual result and
// compared with temporal equality, so they need not be written in
// canonical form. An expected error names an error code.
//
// # Deterministic Testing
//
// store_roundtrip writes into an in-memory SQLite store created per run,
// with sequential IDs and a deterministic clock. The trace of a run is
// therefore byte-identical across runs and suited to golden comparison.
package harness
