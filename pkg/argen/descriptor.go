// Package argen holds argument generators for fuzzing [gl.Context] entry points.
//
// A [Registry] maps an operation identifier such as "isBuffer" to a
// [Descriptor]: a bundle of optional callbacks that know how to set up state,
// generate a valid random argument list, judge argument validity, call the
// operation, and release whatever was created along the way.
//
// A test loop drives one descriptor like this:
//
//	state, err := d.RunSetup(env)
//	for range iterations {
//	    args, err := d.RunGenerate(env, state)
//	    valid := d.Valid(env, args)
//	    rv, err := d.Invoke(env, args)
//	    d.ReleaseReturn(env, rv)
//	    d.ReleaseArgs(env, args)
//	}
//	d.RunTeardown(env, state)
//
// Setup and Generate faults are returned to the caller. Release and teardown
// faults are swallowed and logged, so one broken case cannot stop the rest
// of a run.
package argen

import (
	"errors"
	"fmt"

	"github.com/calvinalkan/argfuzz/pkg/gl"
)

var (
	// ErrGeneratorFault wraps a panic recovered from Setup or Generate.
	ErrGeneratorFault = errors.New("generator fault")

	// ErrNoCall is returned by Invoke when a descriptor has no Call.
	ErrNoCall = errors.New("descriptor has no call")

	// ErrBadArgs is returned by callbacks handed an argument list of the
	// wrong arity or types.
	ErrBadArgs = errors.New("bad argument list")
)

// Source is the randomness generators draw from.
//
// It is satisfied by *math/rand/v2.Rand and by fuzz byte streams.
type Source interface {
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
}

// Args is a positional argument list, or the state returned by Setup.
type Args []any

// Env is what every callback receives: the context under test and a
// randomness source. Descriptors hold no other state.
type Env struct {
	GL   gl.Context
	Rand Source
}

// Descriptor defines how to fuzz one operation. Every field is optional; a
// nil field behaves as a no-op.
//
// Within one operation the order is fixed: Setup once, then per iteration
// Generate, CheckArgValidity, Call, ReturnValueCleanup and Cleanup, then
// Teardown once.
type Descriptor struct {
	// Setup allocates state shared by all iterations.
	Setup func(env Env) (Args, error)

	// Generate produces one valid random argument list. It may create live
	// objects through env.GL.
	Generate func(env Env, state Args) (Args, error)

	// CheckArgValidity reports whether args satisfy the operation's
	// preconditions. It must not modify anything.
	CheckArgValidity func(env Env, args Args) bool

	// Call invokes the operation under test.
	Call func(env Env, args Args) (any, error)

	// ReturnValueCleanup releases whatever Call returned.
	ReturnValueCleanup func(env Env, rv any) error

	// Cleanup releases objects referenced by args.
	Cleanup func(env Env, args Args) error

	// Teardown reverses Setup.
	Teardown func(env Env, state Args) error
}

// Callbacks returns the names of the callbacks d defines, in call order.
func (d Descriptor) Callbacks() []string {
	var out []string

	add := func(defined bool, name string) {
		if defined {
			out = append(out, name)
		}
	}

	add(d.Setup != nil, "setup")
	add(d.Generate != nil, "generate")
	add(d.CheckArgValidity != nil, "checkArgValidity")
	add(d.Call != nil, "call")
	add(d.ReturnValueCleanup != nil, "returnValueCleanup")
	add(d.Cleanup != nil, "cleanup")
	add(d.Teardown != nil, "teardown")

	return out
}

// RunSetup calls Setup. A panic is returned as an error wrapping
// [ErrGeneratorFault].
func (d Descriptor) RunSetup(env Env) (state Args, err error) {
	if d.Setup == nil {
		return nil, nil
	}

	defer recoverFault("setup", &err)

	return d.Setup(env)
}

// RunGenerate calls Generate. Without Generate the argument list is empty.
// A panic is returned as an error wrapping [ErrGeneratorFault].
func (d Descriptor) RunGenerate(env Env, state Args) (args Args, err error) {
	if d.Generate == nil {
		return Args{}, nil
	}

	defer recoverFault("generate", &err)

	return d.Generate(env, state)
}

// Valid calls CheckArgValidity. Without a predicate every argument list is
// considered valid.
func (d Descriptor) Valid(env Env, args Args) bool {
	if d.CheckArgValidity == nil {
		return true
	}

	return d.CheckArgValidity(env, args)
}

// Invoke calls the operation. Panics are not recovered here; the context
// under test is expected to report failures as errors.
func (d Descriptor) Invoke(env Env, args Args) (any, error) {
	if d.Call == nil {
		return nil, ErrNoCall
	}

	return d.Call(env, args)
}

// ReleaseReturn runs ReturnValueCleanup on rv and discards any fault.
// It reports whether a fault was suppressed.
func (d Descriptor) ReleaseReturn(env Env, rv any) bool {
	if d.ReturnValueCleanup == nil {
		return false
	}

	return suppressed("returnValueCleanup", func() error { return d.ReturnValueCleanup(env, rv) })
}

// ReleaseArgs runs Cleanup on args and discards any fault.
// It reports whether a fault was suppressed.
func (d Descriptor) ReleaseArgs(env Env, args Args) bool {
	if d.Cleanup == nil {
		return false
	}

	return suppressed("cleanup", func() error { return d.Cleanup(env, args) })
}

// RunTeardown runs Teardown on state and discards any fault.
// It reports whether a fault was suppressed.
func (d Descriptor) RunTeardown(env Env, state Args) bool {
	if d.Teardown == nil {
		return false
	}

	return suppressed("teardown", func() error { return d.Teardown(env, state) })
}

// Suppress runs fn, recovering any panic. It returns the fault fn produced,
// as an error or a recovered panic, so the caller can log it before
// discarding it.
func Suppress(fn func() error) (fault error) {
	defer func() {
		if r := recover(); r != nil {
			fault = panicError(r)
		}
	}()

	return fn()
}

func suppressed(phase string, fn func() error) bool {
	fault := Suppress(fn)
	if fault == nil {
		return false
	}

	Logger().Debug("suppressed fault", "phase", phase, "error", fault)

	return true
}

func recoverFault(phase string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w in %s: %w", ErrGeneratorFault, phase, panicError(r))
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}

	return fmt.Errorf("panic: %v", r)
}

// Arg returns args[i] as a T. It reports false when i is out of range or
// the value has another type.
func Arg[T any](args Args, i int) (T, bool) {
	var zero T

	if i < 0 || i >= len(args) {
		return zero, false
	}

	v, ok := args[i].(T)

	return v, ok
}

// argErr builds the error for an argument list that does not match what a
// callback expects.
func argErr(op string, args Args) error {
	return fmt.Errorf("%s: %w: %v", op, ErrBadArgs, []any(args))
}
