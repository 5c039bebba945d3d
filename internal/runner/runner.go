// Package runner drives argument generators against a GL context and
// collects findings: calls whose outcome contradicts the generator's own
// validity verdict.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calvinalkan/argfuzz/pkg/argen"
	"github.com/calvinalkan/argfuzz/pkg/gl"
)

// Kind classifies a finding.
type Kind string

const (
	// KindUnexpectedFailure means args judged valid made the call fail.
	KindUnexpectedFailure Kind = "unexpected-failure"

	// KindUnexpectedSuccess means args judged invalid went through cleanly.
	KindUnexpectedSuccess Kind = "unexpected-success"

	// KindCallPanic means the call panicked with something other than an
	// injected fault.
	KindCallPanic Kind = "call-panic"
)

// Finding is one iteration whose outcome contradicts CheckArgValidity.
type Finding struct {
	Iteration   int      `json:"iteration"`
	Kind        Kind     `json:"kind"`
	Args        []string `json:"args"`
	ExpectValid bool     `json:"expect_valid"`
	Err         string   `json:"error,omitempty"`
	GLError     string   `json:"gl_error,omitempty"`
}

// Report summarizes one operation run.
type Report struct {
	Operation  string `json:"operation"`
	Iterations int    `json:"iterations"`

	ValidArgs    int `json:"valid_args"`
	InvalidArgs  int `json:"invalid_args"`
	CallFailures int `json:"call_failures"`

	// InjectedFaults counts iterations cut short by a chaos fault.
	InjectedFaults int `json:"injected_faults"`

	// SuppressedFaults counts cleanup and teardown faults that were
	// swallowed.
	SuppressedFaults int `json:"suppressed_faults"`

	// Leaked holds objects still alive on the context after teardown.
	Leaked map[string]int `json:"leaked,omitempty"`

	// Error is set when a setup or generate fault stopped the operation.
	Error string `json:"error,omitempty"`

	Findings []Finding `json:"findings,omitempty"`
}

// Run fuzzes one operation for iterations rounds.
//
// Setup and non-injected Generate faults stop the operation and are
// returned. Cancelling ctx stops the loop between iterations. Teardown runs
// whenever Setup succeeded.
func Run(ctx context.Context, env argen.Env, id string, d argen.Descriptor, iterations int) (report Report, err error) {
	log := argen.Logger().With("op", id)
	report = Report{Operation: id}

	state, err := d.RunSetup(env)
	if err != nil {
		if gl.IsChaosErr(err) {
			report.InjectedFaults++
		}

		return report, fmt.Errorf("%s setup: %w", id, err)
	}

	defer func() {
		if d.RunTeardown(env, state) {
			report.SuppressedFaults++
		}

		_ = env.GL.GetError()
	}()

	log.Info("run start", "iterations", iterations)

	for i := range iterations {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		args, err := d.RunGenerate(env, state)
		if err != nil {
			if gl.IsChaosErr(err) {
				report.Iterations++
				report.InjectedFaults++
				log.Debug("generate fault injected", "iteration", i, "error", err)

				continue
			}

			log.Warn("generate failed", "iteration", i, "error", err)

			return report, fmt.Errorf("%s generate: %w", id, err)
		}

		report.Iterations++
		iterate(env, d, i, args, &report, log)
	}

	log.Info("run done",
		"valid", report.ValidArgs,
		"invalid", report.InvalidArgs,
		"findings", len(report.Findings),
	)

	return report, nil
}

func iterate(env argen.Env, d argen.Descriptor, i int, args argen.Args, report *Report, log *slog.Logger) {
	defer func() {
		if d.ReleaseArgs(env, args) {
			report.SuppressedFaults++
		}

		_ = env.GL.GetError()
	}()

	valid := d.Valid(env, args)
	if valid {
		report.ValidArgs++
	} else {
		report.InvalidArgs++
	}

	// Errors left behind by generation must not be blamed on the call.
	_ = env.GL.GetError()

	rv, panicked, callErr := invoke(env, d, args)
	code := env.GL.GetError()

	if gl.IsChaosErr(callErr) {
		report.InjectedFaults++
		log.Debug("call fault injected", "iteration", i, "error", callErr)

		return
	}

	if d.ReleaseReturn(env, rv) {
		report.SuppressedFaults++
	}

	failed := callErr != nil || code != gl.NoError
	if failed {
		report.CallFailures++
	}

	var kind Kind

	switch {
	case panicked:
		kind = KindCallPanic
	case valid && failed:
		kind = KindUnexpectedFailure
	case !valid && !failed:
		kind = KindUnexpectedSuccess
	default:
		log.Debug("iteration ok", "iteration", i, "valid", valid, "gl_error", code)

		return
	}

	f := Finding{
		Iteration:   i,
		Kind:        kind,
		Args:        FormatArgs(args),
		ExpectValid: valid,
	}

	if callErr != nil {
		f.Err = callErr.Error()
	}

	if code != gl.NoError {
		f.GLError = code.String()
	}

	report.Findings = append(report.Findings, f)
}

// invoke calls d and converts a panic into an error. Injected panics keep
// their chaos marker so the caller can discount them.
func invoke(env argen.Env, d argen.Descriptor, args argen.Args) (rv any, panicked bool, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if e, ok := r.(error); ok {
			err = e
		} else {
			err = fmt.Errorf("panic: %v", r)
		}

		panicked = !gl.IsChaosErr(err)
	}()

	rv, err = d.Invoke(env, args)

	return rv, false, err
}

// FormatArgs renders args for reports. GL objects and enums print through
// their String methods.
func FormatArgs(args argen.Args) []string {
	out := make([]string, len(args))

	for i, a := range args {
		switch v := a.(type) {
		case string:
			out[i] = fmt.Sprintf("%q", v)
		case nil:
			out[i] = "null"
		default:
			out[i] = fmt.Sprint(v)
		}
	}

	return out
}
