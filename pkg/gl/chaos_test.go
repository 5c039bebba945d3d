package gl_test

import (
	"errors"
	"testing"

	"github.com/calvinalkan/argfuzz/pkg/gl"
)

// =============================================================================
// Chaos Context Tests
//
// Chaos only faults calls that can fail in WebGL. Queries always pass through.
// =============================================================================

func Test_Chaos_Passes_Through_When_Mode_Is_NoOp(t *testing.T) {
	t.Parallel()

	fake := gl.NewFake()
	chaos := gl.NewChaos(fake, 12345, gl.ChaosConfig{
		CreateFailRate: 1.0,
		DeleteFailRate: 1.0,
		CallFailRate:   1.0,
		PanicRate:      1.0,
	})
	chaos.SetMode(gl.ChaosModeNoOp)

	buf, err := chaos.CreateBuffer()
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	if err := chaos.DeleteBuffer(buf); err != nil {
		t.Fatalf("DeleteBuffer: %v", err)
	}

	if err := chaos.Hint(gl.GenerateMipmapHint, gl.Fastest); err != nil {
		t.Fatalf("Hint: %v", err)
	}

	if got, want := chaos.Stats().Total(), int64(0); got != want {
		t.Fatalf("Total=%d, want %d", got, want)
	}
}

func Test_Chaos_Injects_Marked_Error_When_Create_Fail_Rate_Is_One(t *testing.T) {
	t.Parallel()

	chaos := gl.NewChaos(gl.NewFake(), 1, gl.ChaosConfig{CreateFailRate: 1.0})

	prog, err := chaos.CreateProgram()
	if err == nil {
		t.Fatalf("CreateProgram unexpectedly succeeded")
	}

	if prog != nil {
		t.Fatalf("prog=%v, want nil", prog)
	}

	if !gl.IsChaosErr(err) {
		t.Fatalf("err=%v should be marked as injected", err)
	}

	if !errors.Is(err, gl.ErrInjected) && !errors.Is(err, gl.ErrContextLost) {
		t.Fatalf("err=%v, want ErrInjected or ErrContextLost", err)
	}

	if got, want := chaos.Stats().CreateFails, int64(1); got != want {
		t.Fatalf("CreateFails=%d, want %d", got, want)
	}
}

func Test_Chaos_Leaves_Object_Alive_When_Delete_Is_Faulted(t *testing.T) {
	t.Parallel()

	fake := gl.NewFake()
	chaos := gl.NewChaos(fake, 7, gl.ChaosConfig{DeleteFailRate: 1.0})

	tex, err := chaos.CreateTexture()
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}

	if err := chaos.DeleteTexture(tex); !gl.IsChaosErr(err) {
		t.Fatalf("DeleteTexture err=%v, want injected", err)
	}

	if got, want := fake.IsTexture(tex), true; got != want {
		t.Fatalf("IsTexture=%v, want %v", got, want)
	}
}

func Test_Chaos_Panics_With_Injected_Error_When_Panic_Rate_Is_One(t *testing.T) {
	t.Parallel()

	chaos := gl.NewChaos(gl.NewFake(), 99, gl.ChaosConfig{PanicRate: 1.0})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}

		err, ok := r.(error)
		if !ok || !gl.IsChaosErr(err) {
			t.Fatalf("panic value=%v, want injected error", r)
		}

		if got, want := chaos.Stats().Panics, int64(1); got != want {
			t.Fatalf("Panics=%d, want %d", got, want)
		}
	}()

	_, _ = chaos.CreateRenderbuffer()
}

func Test_Chaos_Never_Faults_Queries(t *testing.T) {
	t.Parallel()

	fake := gl.NewFake()
	buf, _ := fake.CreateBuffer()

	chaos := gl.NewChaos(fake, 3, gl.ChaosConfig{
		CreateFailRate: 1.0,
		DeleteFailRate: 1.0,
		CallFailRate:   1.0,
		PanicRate:      1.0,
	})

	for range 100 {
		if !chaos.IsBuffer(buf) {
			t.Fatalf("IsBuffer=false through chaos")
		}

		_ = chaos.IsEnabled(gl.Dither)
		_ = chaos.GetError()
	}

	if got, want := chaos.Stats().Total(), int64(0); got != want {
		t.Fatalf("Total=%d, want %d", got, want)
	}
}

func Test_Chaos_Injection_Is_Deterministic_When_Seed_Is_Fixed(t *testing.T) {
	t.Parallel()

	cfg := gl.ChaosConfig{CallFailRate: 0.5}

	run := func() []bool {
		chaos := gl.NewChaos(gl.NewFake(), 42, cfg)
		out := make([]bool, 0, 64)

		for range 64 {
			_, err := chaos.GetParameter(gl.Vendor)
			out = append(out, err != nil)
		}

		return out
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("call %d: first=%v second=%v", i, first[i], second[i])
		}
	}
}

func Test_IsChaosErr_Returns_False_When_Error_Is_Real(t *testing.T) {
	t.Parallel()

	if gl.IsChaosErr(nil) {
		t.Fatalf("IsChaosErr(nil)=true")
	}

	if gl.IsChaosErr(gl.ErrContextLost) {
		t.Fatalf("IsChaosErr(ErrContextLost)=true")
	}
}
