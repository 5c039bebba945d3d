package argen_test

import (
	"errors"
	"testing"

	"github.com/calvinalkan/argfuzz/pkg/argen"
)

var errBoom = errors.New("boom")

func Test_Suppress_Returns_Fault_When_Fn_Panics(t *testing.T) {
	t.Parallel()

	fault := argen.Suppress(func() error { panic(errBoom) })
	if !errors.Is(fault, errBoom) {
		t.Fatalf("fault=%v, want %v", fault, errBoom)
	}

	fault = argen.Suppress(func() error { panic("plain string") })
	if fault == nil {
		t.Fatalf("fault=nil for string panic")
	}

	if fault = argen.Suppress(func() error { return nil }); fault != nil {
		t.Fatalf("fault=%v, want nil", fault)
	}
}

func Test_Zero_Descriptor_Behaves_As_No_Op(t *testing.T) {
	t.Parallel()

	var d argen.Descriptor

	env := argen.Env{}

	state, err := d.RunSetup(env)
	if err != nil || state != nil {
		t.Fatalf("RunSetup=(%v, %v), want (nil, nil)", state, err)
	}

	args, err := d.RunGenerate(env, state)
	if err != nil || len(args) != 0 {
		t.Fatalf("RunGenerate=(%v, %v), want empty", args, err)
	}

	if got, want := d.Valid(env, args), true; got != want {
		t.Fatalf("Valid=%v, want %v", got, want)
	}

	if _, err := d.Invoke(env, args); !errors.Is(err, argen.ErrNoCall) {
		t.Fatalf("Invoke err=%v, want %v", err, argen.ErrNoCall)
	}

	if d.ReleaseReturn(env, nil) || d.ReleaseArgs(env, args) || d.RunTeardown(env, state) {
		t.Fatalf("no-op release reported a suppressed fault")
	}
}

func Test_Release_Suppresses_Errors_And_Panics(t *testing.T) {
	t.Parallel()

	d := argen.Descriptor{
		ReturnValueCleanup: func(argen.Env, any) error { return errBoom },
		Cleanup:            func(argen.Env, argen.Args) error { panic(errBoom) },
		Teardown:           func(argen.Env, argen.Args) error { panic("teardown") },
	}

	env := argen.Env{}

	if got, want := d.ReleaseReturn(env, 1), true; got != want {
		t.Errorf("ReleaseReturn=%v, want %v", got, want)
	}

	if got, want := d.ReleaseArgs(env, nil), true; got != want {
		t.Errorf("ReleaseArgs=%v, want %v", got, want)
	}

	if got, want := d.RunTeardown(env, nil), true; got != want {
		t.Errorf("RunTeardown=%v, want %v", got, want)
	}
}

func Test_RunSetup_Propagates_Error_And_Wraps_Panic(t *testing.T) {
	t.Parallel()

	env := argen.Env{}

	failing := argen.Descriptor{Setup: func(argen.Env) (argen.Args, error) { return nil, errBoom }}
	if _, err := failing.RunSetup(env); !errors.Is(err, errBoom) {
		t.Fatalf("err=%v, want %v", err, errBoom)
	}

	panicking := argen.Descriptor{Setup: func(argen.Env) (argen.Args, error) { panic(errBoom) }}

	_, err := panicking.RunSetup(env)
	if !errors.Is(err, argen.ErrGeneratorFault) || !errors.Is(err, errBoom) {
		t.Fatalf("err=%v, want generator fault wrapping %v", err, errBoom)
	}
}

func Test_Arg_Reports_False_When_Index_Or_Type_Mismatch(t *testing.T) {
	t.Parallel()

	args := argen.Args{"name", 3}

	if v, ok := argen.Arg[string](args, 0); !ok || v != "name" {
		t.Fatalf("Arg[string](0)=(%q, %v)", v, ok)
	}

	if _, ok := argen.Arg[string](args, 1); ok {
		t.Fatalf("Arg[string](1) ok for int")
	}

	if _, ok := argen.Arg[int](args, 2); ok {
		t.Fatalf("Arg[int](2) ok out of range")
	}

	if _, ok := argen.Arg[int](args, -1); ok {
		t.Fatalf("Arg[int](-1) ok")
	}
}
