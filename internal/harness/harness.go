package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/codec"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/store"
	"github.com/roach88/tempus/internal/temporal"
	"github.com/roach88/tempus/internal/testutil"
)

// Harness is the test execution engine.
type Harness struct {
	reg    *base.Registry
	logger *slog.Logger
}

// New creates a harness that logs step execution to logger.
func New(logger *slog.Logger) *Harness {
	return &Harness{reg: base.NewRegistry(), logger: logger}
}

// Run executes a test scenario with logging suppressed.
func Run(scenario *Scenario) (*Result, error) {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil))).Run(context.Background(), scenario)
}

// run holds the state of one scenario execution.
type run struct {
	*Harness
	scenario *Scenario
	values   map[string]temporal.Temporal
	store    store.Store
}

// outcome is what a step produced, before formatting.
type outcome struct {
	temp   temporal.Temporal
	other  temporal.Temporal
	value  base.Value
	result StepResult
}

// Run executes a test scenario and returns the result.
//
// An error is returned when the scenario cannot be executed at all: an
// input does not parse or an argument is malformed. Failed expectations are
// reported in the result instead.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewSequentialIDs().NewID),
		store.WithClock(testutil.NewDeterministicClock(testutil.Epoch, time.Second).Now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	r := &run{
		Harness:  h,
		scenario: scenario,
		values:   make(map[string]temporal.Temporal, len(scenario.Inputs)),
		store:    st,
	}
	if err := r.parseInputs(); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		out, err := r.execute(ctx, i, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		result.Trace = append(result.Trace, out.result)

		if step.Expect != nil {
			for _, msg := range checkExpect(out, step.Expect) {
				result.AddError(fmt.Sprintf("step %d (%s): %s", i, step.Op, msg))
			}
		}
		if step.Save != "" && out.temp != nil {
			r.values[step.Save] = out.temp
		}

		h.logger.Debug("step completed",
			"scenario", scenario.Name,
			"step", i,
			"op", step.Op,
			"output", out.result.Output,
			"error", out.result.Error,
		)
	}
	return result, nil
}

func (r *run) parseInputs() error {
	names := make([]string, 0, len(r.scenario.Inputs))
	for name := range r.scenario.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		in := r.scenario.Inputs[name]
		typeName := in.Type
		if typeName == "" {
			typeName = r.scenario.Type
		}
		temp, err := codec.Parse(r.reg, typeName, in.Literal)
		if err != nil {
			return fmt.Errorf("input %q: %w", name, err)
		}
		r.values[name] = temp
	}
	return nil
}

func (r *run) operand(name string) (temporal.Temporal, error) {
	temp, ok := r.values[name]
	if !ok {
		return nil, fmt.Errorf("input %q has no value", name)
	}
	return temp, nil
}

func (r *run) execute(ctx context.Context, index int, step Step) (outcome, error) {
	out := outcome{result: StepResult{Index: index, Op: step.Op, Input: step.Input, With: step.With}}

	a, err := r.operand(step.Input)
	if err != nil {
		return out, err
	}
	var b temporal.Temporal
	if step.With != "" {
		if b, err = r.operand(step.With); err != nil {
			return out, err
		}
	}

	switch step.Op {
	case OpValueAt:
		t, err := timestampArg(step.Args, "at")
		if err != nil {
			return out, err
		}
		if v, ok := a.ValueAt(t); ok {
			out.setValue(v)
		} else {
			out.result.Empty = true
		}

	case OpAtTimestamp:
		t, err := timestampArg(step.Args, "at")
		if err != nil {
			return out, err
		}
		inst, ok := temporal.AtTimestamp(a, t)
		out.setTemporal(inst, ok)

	case OpAtPeriod, OpMinusPeriod:
		p, err := periodArg(step.Args, "period")
		if err != nil {
			return out, err
		}
		if step.Op == OpAtPeriod {
			out.setTemporal(temporal.AtPeriod(a, p))
		} else {
			out.setTemporal(temporal.MinusPeriod(a, p))
		}

	case OpAtPeriodSet, OpMinusPeriodSet:
		ps, err := periodSetArg(step.Args, "periods")
		if err != nil {
			return out, err
		}
		if step.Op == OpAtPeriodSet {
			out.setTemporal(temporal.AtPeriodSet(a, ps))
		} else {
			out.setTemporal(temporal.MinusPeriodSet(a, ps))
		}

	case OpSynchronize:
		mode, err := modeArg(step.Args)
		if err != nil {
			return out, err
		}
		synced, ok, err := temporal.Synchronize(a, b, mode)
		if err != nil {
			out.setError(err)
			break
		}
		out.setTemporal(synced.A, ok)
		if ok {
			out.other = synced.B
			out.result.Other = synced.B.String()
			for _, t := range synced.Crossings {
				out.result.Crossings = append(out.result.Crossings, t.String())
			}
		}

	case OpNormalize:
		temp, err := normalize(a)
		if err != nil {
			out.setError(err)
			break
		}
		out.setTemporal(temp, true)

	case OpLift:
		temp, ok, err := r.lift(step, a, b)
		if err != nil {
			if temporal.IsIncompatibleOperands(err) || temporal.IsValidationError(err) {
				out.setError(err)
				break
			}
			return out, err
		}
		out.setTemporal(temp, ok)

	case OpEverEq, OpAlwaysEq:
		v, err := valueArg(a.BaseType(), step.Args, "value")
		if err != nil {
			return out, err
		}
		if step.Op == OpEverEq {
			out.setValue(base.Bool(temporal.EverEq(a, v)))
		} else {
			out.setValue(base.Bool(temporal.AlwaysEq(a, v)))
		}

	case OpEncodeRoundTrip:
		data := codec.Encode(a)
		back, err := codec.Decode(data)
		if err != nil {
			out.setError(err)
			break
		}
		out.setTemporal(back, true)
		out.result.Bytes = len(data)

	case OpStoreRoundTrip:
		name := fmt.Sprintf("%s/%d", r.scenario.Name, index)
		if _, err := r.store.Put(ctx, name, a); err != nil {
			return out, err
		}
		rec, err := r.store.Get(ctx, name)
		if err != nil {
			return out, err
		}
		out.setTemporal(rec.Value, true)

	default:
		return out, fmt.Errorf("unknown op %q", step.Op)
	}
	return out, nil
}

// liftFuncs are the binary lifted functions by name.
var liftFuncs = map[string]func(a, b temporal.Temporal) (temporal.Temporal, bool, error){
	"eq":       temporal.TEq,
	"ne":       temporal.TNe,
	"lt":       temporal.TLt,
	"le":       temporal.TLe,
	"gt":       temporal.TGt,
	"ge":       temporal.TGe,
	"and":      temporal.TAnd,
	"or":       temporal.TOr,
	"add":      temporal.Add,
	"sub":      temporal.Sub,
	"distance": temporal.Distance,
}

func (r *run) lift(step Step, a, b temporal.Temporal) (temporal.Temporal, bool, error) {
	name, err := cast.ToStringE(step.Args["fn"])
	if err != nil {
		return nil, false, fmt.Errorf("args.fn: %w", err)
	}
	if name == "not" {
		temp, err := temporal.TNot(a)
		return temp, err == nil, err
	}
	fn, ok := liftFuncs[name]
	if !ok {
		return nil, false, fmt.Errorf("args.fn: unknown function %q", name)
	}
	if b == nil {
		return nil, false, fmt.Errorf("lift %s requires with", name)
	}
	return fn(a, b)
}

// normalize rebuilds sequences with normalization on. Instants and instant
// sets are already minimal.
func normalize(temp temporal.Temporal) (temporal.Temporal, error) {
	switch v := temp.(type) {
	case *temporal.Sequence:
		seq, err := temporal.NewSequence(v.Instants(), v.LowerInc(), v.UpperInc(), v.Interp(), true)
		if err != nil {
			return nil, err
		}
		return seq, nil
	case *temporal.SequenceSet:
		set, err := temporal.NewSequenceSet(v.Sequences(), true)
		if err != nil {
			return nil, err
		}
		return set, nil
	default:
		return temp, nil
	}
}

func (o *outcome) setTemporal(temp temporal.Temporal, ok bool) {
	if !ok || temp == nil {
		o.result.Empty = true
		return
	}
	o.temp = temp
	o.result.Output = temp.String()
}

func (o *outcome) setValue(v base.Value) {
	o.value = v
	o.result.Output = v.String()
}

func (o *outcome) setError(err error) {
	o.result.Error = errorCode(err)
}

// checkExpect returns one message per expectation the outcome misses.
func checkExpect(out outcome, exp *Expect) []string {
	res := out.result
	if exp.Error != "" {
		if res.Error != exp.Error {
			return []string{fmt.Sprintf("expected error %s, got %s", exp.Error, describe(res))}
		}
		return nil
	}
	if res.Error != "" {
		return []string{fmt.Sprintf("unexpected error %s", res.Error)}
	}
	if exp.Empty {
		if !res.Empty {
			return []string{fmt.Sprintf("expected no value, got %s", res.Output)}
		}
		return nil
	}
	if res.Empty {
		return []string{"expected a value, got none"}
	}

	var msgs []string
	if exp.Output != "" {
		if msg := compareOutput(out.temp, out.value, exp.Output); msg != "" {
			msgs = append(msgs, "output "+msg)
		}
	}
	if exp.Other != "" {
		if msg := compareOutput(out.other, nil, exp.Other); msg != "" {
			msgs = append(msgs, "other "+msg)
		}
	}
	if exp.Crossings != nil {
		if msg := compareCrossings(res.Crossings, exp.Crossings); msg != "" {
			msgs = append(msgs, "crossings "+msg)
		}
	}
	return msgs
}

func compareOutput(temp temporal.Temporal, value base.Value, want string) string {
	switch {
	case temp != nil:
		expected, err := codec.ParseAs(temp.BaseType(), want)
		if err != nil {
			return fmt.Sprintf("expectation %q does not parse: %v", want, err)
		}
		if !temporal.Equal(expected, temp) {
			return fmt.Sprintf("= %s, want %s", temp, expected)
		}
	case value != nil:
		expected, err := base.ParseValue(value.Type(), want)
		if err != nil {
			return fmt.Sprintf("expectation %q does not parse: %v", want, err)
		}
		if !base.Equal(expected, value) {
			return fmt.Sprintf("= %s, want %s", value, expected)
		}
	default:
		return "is missing"
	}
	return ""
}

func compareCrossings(got, want []string) string {
	if len(got) != len(want) {
		return fmt.Sprintf("= %v, want %v", got, want)
	}
	for i := range want {
		w, err := period.ParseTimestamp(want[i])
		if err != nil {
			return fmt.Sprintf("expectation %q does not parse: %v", want[i], err)
		}
		if g := period.MustParseTimestamp(got[i]); g != w {
			return fmt.Sprintf("= %v, want %v", got, want)
		}
	}
	return ""
}

func describe(res StepResult) string {
	switch {
	case res.Error != "":
		return res.Error
	case res.Empty:
		return "no value"
	default:
		return res.Output
	}
}

// errorCode extracts the categorized code of err.
func errorCode(err error) string {
	var te *temporal.Error
	if errors.As(err, &te) {
		return string(te.Code)
	}
	var pe *codec.ParseError
	if errors.As(err, &pe) {
		return string(pe.Code)
	}
	var pde *period.Error
	if errors.As(err, &pde) {
		return string(pde.Code)
	}
	return "ERROR"
}

func timestampArg(args map[string]any, key string) (period.Timestamp, error) {
	s, err := cast.ToStringE(args[key])
	if err != nil {
		return 0, fmt.Errorf("args.%s: %w", key, err)
	}
	t, err := period.ParseTimestamp(s)
	if err != nil {
		return 0, fmt.Errorf("args.%s: %w", key, err)
	}
	return t, nil
}

func periodArg(args map[string]any, key string) (period.Period, error) {
	s, err := cast.ToStringE(args[key])
	if err != nil {
		return period.Period{}, fmt.Errorf("args.%s: %w", key, err)
	}
	p, err := period.ParsePeriod(s)
	if err != nil {
		return period.Period{}, fmt.Errorf("args.%s: %w", key, err)
	}
	return p, nil
}

func periodSetArg(args map[string]any, key string) (period.Set, error) {
	list, err := cast.ToStringSliceE(args[key])
	if err != nil {
		return period.Set{}, fmt.Errorf("args.%s: %w", key, err)
	}
	periods := make([]period.Period, 0, len(list))
	for i, s := range list {
		p, err := period.ParsePeriod(s)
		if err != nil {
			return period.Set{}, fmt.Errorf("args.%s[%d]: %w", key, i, err)
		}
		periods = append(periods, p)
	}
	ps, err := period.NewSet(periods...)
	if err != nil {
		return period.Set{}, fmt.Errorf("args.%s: %w", key, err)
	}
	return ps, nil
}

func modeArg(args map[string]any) (temporal.Mode, error) {
	raw, ok := args["mode"]
	if !ok {
		return temporal.Intersect, nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return 0, fmt.Errorf("args.mode: %w", err)
	}
	mode, ok := temporal.ParseMode(s)
	if !ok {
		return 0, fmt.Errorf("args.mode: unknown mode %q", s)
	}
	return mode, nil
}

// valueArg reads a base value of type typ. Text may be given bare or quoted.
func valueArg(typ base.Type, args map[string]any, key string) (base.Value, error) {
	s, err := cast.ToStringE(args[key])
	if err != nil {
		return nil, fmt.Errorf("args.%s: %w", key, err)
	}
	if typ == base.TypeText && !strings.HasPrefix(s, `"`) {
		return base.NewText(s), nil
	}
	v, err := base.ParseValue(typ, s)
	if err != nil {
		return nil, fmt.Errorf("args.%s: %w", key, err)
	}
	return v, nil
}
