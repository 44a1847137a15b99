package harness

// StepResult is the outcome of one step, in the trace.
type StepResult struct {
	Index int    `json:"index"`
	Op    string `json:"op"`
	Input string `json:"input"`
	With  string `json:"with,omitempty"`

	// Output is the literal of the result, or the boolean of ever_eq and
	// always_eq.
	Output string `json:"output,omitempty"`

	// Other is the second synchronized operand.
	Other string `json:"other,omitempty"`

	// Crossings are the inserted crossing timestamps of synchronize.
	Crossings []string `json:"crossings,omitempty"`

	// Bytes is the encoded size for encode_roundtrip.
	Bytes int `json:"bytes,omitempty"`

	// Empty is true when the operation produced no value.
	Empty bool `json:"empty,omitempty"`

	// Error is the error code of a failed operation.
	Error string `json:"error,omitempty"`
}

// toCanonicalMap converts a step result for canonical JSON serialization.
func (r StepResult) toCanonicalMap() map[string]any {
	m := map[string]any{
		"index": r.Index,
		"op":    r.Op,
		"input": r.Input,
	}
	if r.With != "" {
		m["with"] = r.With
	}
	if r.Output != "" {
		m["output"] = r.Output
	}
	if r.Other != "" {
		m["other"] = r.Other
	}
	if len(r.Crossings) > 0 {
		m["crossings"] = r.Crossings
	}
	if r.Bytes > 0 {
		m["bytes"] = r.Bytes
	}
	if r.Empty {
		m["empty"] = true
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	return m
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses match.
	Pass bool `json:"pass"`

	// Trace contains one entry per executed step.
	Trace []StepResult `json:"trace"`

	// Errors contains expectation mismatches.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
