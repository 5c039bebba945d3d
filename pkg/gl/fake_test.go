package gl_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/argfuzz/pkg/gl"
)

func Test_Fake_Is_Buffer_Tracks_Lifetime_When_Created_And_Deleted(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	buf, err := ctx.CreateBuffer()
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	if got, want := ctx.IsBuffer(buf), true; got != want {
		t.Fatalf("IsBuffer(new)=%v, want %v", got, want)
	}

	if err := ctx.DeleteBuffer(buf); err != nil {
		t.Fatalf("DeleteBuffer: %v", err)
	}

	if got, want := ctx.IsBuffer(buf), false; got != want {
		t.Fatalf("IsBuffer(deleted)=%v, want %v", got, want)
	}

	// Second delete is a no-op, like WebGL.
	if err := ctx.DeleteBuffer(buf); err != nil {
		t.Fatalf("DeleteBuffer twice: %v", err)
	}

	if got, want := ctx.GetError(), gl.NoError; got != want {
		t.Fatalf("GetError=%v, want %v", got, want)
	}
}

func Test_Fake_Is_Queries_Return_False_When_Handle_Is_Nil(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	checks := map[string]bool{
		"IsBuffer":       ctx.IsBuffer(nil),
		"IsFramebuffer":  ctx.IsFramebuffer(nil),
		"IsProgram":      ctx.IsProgram(nil),
		"IsRenderbuffer": ctx.IsRenderbuffer(nil),
		"IsShader":       ctx.IsShader(nil),
		"IsTexture":      ctx.IsTexture(nil),
	}

	for name, got := range checks {
		if got {
			t.Errorf("%s(nil)=true, want false", name)
		}
	}
}

func Test_Fake_Records_Invalid_Operation_When_Object_Is_Foreign(t *testing.T) {
	t.Parallel()

	owner := gl.NewFake()
	other := gl.NewFake()

	prog, err := owner.CreateProgram()
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	if got, want := other.IsProgram(prog), false; got != want {
		t.Fatalf("foreign IsProgram=%v, want %v", got, want)
	}

	if err := other.DeleteProgram(prog); err != nil {
		t.Fatalf("foreign DeleteProgram: %v", err)
	}

	if got, want := other.GetError(), gl.InvalidOperation; got != want {
		t.Fatalf("GetError=%v, want %v", got, want)
	}

	// The owner still sees the program alive.
	if got, want := owner.IsProgram(prog), true; got != want {
		t.Fatalf("owner IsProgram=%v, want %v", got, want)
	}
}

func Test_Fake_Get_Attrib_Location_Returns_Bound_Index_When_Program_Is_Live(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	prog, err := ctx.CreateProgram()
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	if err := ctx.BindAttribLocation(prog, 3, "aPosition"); err != nil {
		t.Fatalf("BindAttribLocation: %v", err)
	}

	loc, err := ctx.GetAttribLocation(prog, "aPosition")
	if err != nil {
		t.Fatalf("GetAttribLocation: %v", err)
	}

	if got, want := loc, 3; got != want {
		t.Fatalf("loc=%d, want %d", got, want)
	}

	loc, _ = ctx.GetAttribLocation(prog, "unbound")
	if got, want := loc, -1; got != want {
		t.Fatalf("unbound loc=%d, want %d", got, want)
	}

	if got, want := ctx.GetError(), gl.NoError; got != want {
		t.Fatalf("GetError=%v, want %v", got, want)
	}
}

func Test_Fake_Get_Attrib_Location_Records_Error_When_Arguments_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		prepare func(ctx *gl.Fake) (*gl.Program, string)
		want    gl.Enum
	}{
		{
			name: "NilProgram",
			prepare: func(*gl.Fake) (*gl.Program, string) {
				return nil, "a"
			},
			want: gl.InvalidValue,
		},
		{
			name: "DeletedProgram",
			prepare: func(ctx *gl.Fake) (*gl.Program, string) {
				p, _ := ctx.CreateProgram()
				_ = ctx.DeleteProgram(p)

				return p, "a"
			},
			want: gl.InvalidValue,
		},
		{
			name: "ForeignProgram",
			prepare: func(*gl.Fake) (*gl.Program, string) {
				p, _ := gl.NewFake().CreateProgram()

				return p, "a"
			},
			want: gl.InvalidOperation,
		},
		{
			name: "MalformedName",
			prepare: func(ctx *gl.Fake) (*gl.Program, string) {
				p, _ := ctx.CreateProgram()

				return p, "9lives"
			},
			want: gl.InvalidValue,
		},
		{
			name: "ReservedName",
			prepare: func(ctx *gl.Fake) (*gl.Program, string) {
				p, _ := ctx.CreateProgram()

				return p, "gl_Position"
			},
			want: gl.InvalidOperation,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ctx := gl.NewFake()
			prog, name := testCase.prepare(ctx)

			loc, err := ctx.GetAttribLocation(prog, name)
			if err != nil {
				t.Fatalf("GetAttribLocation: %v", err)
			}

			if got, want := loc, -1; got != want {
				t.Errorf("loc=%d, want %d", got, want)
			}

			if got, want := ctx.GetError(), testCase.want; got != want {
				t.Errorf("GetError=%v, want %v", got, want)
			}
		})
	}
}

func Test_Fake_Bind_Attrib_Location_Records_Invalid_Value_When_Index_Out_Of_Range(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()
	prog, _ := ctx.CreateProgram()

	if err := ctx.BindAttribLocation(prog, gl.FakeMaxVertexAttribs, "a"); err != nil {
		t.Fatalf("BindAttribLocation: %v", err)
	}

	if got, want := ctx.GetError(), gl.InvalidValue; got != want {
		t.Fatalf("GetError=%v, want %v", got, want)
	}
}

func Test_Fake_Get_Error_Keeps_First_Error_When_Several_Recorded(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	_ = ctx.Hint(gl.Blend, gl.Fastest)       // INVALID_ENUM
	_, _ = ctx.GetAttribLocation(nil, "a")   // INVALID_VALUE
	_, _ = ctx.CreateShader(gl.Enum(0xDEAD)) // INVALID_ENUM
	_ = ctx.BindAttribLocation(nil, 0, "a")  // INVALID_VALUE
	_, _ = ctx.GetParameter(gl.Enum(0xBEEF)) // INVALID_ENUM

	if got, want := ctx.GetError(), gl.InvalidEnum; got != want {
		t.Fatalf("first GetError=%v, want %v", got, want)
	}

	if got, want := ctx.GetError(), gl.NoError; got != want {
		t.Fatalf("second GetError=%v, want %v", got, want)
	}
}

func Test_Fake_Hint_Updates_State_When_Arguments_Valid(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	if err := ctx.Hint(gl.GenerateMipmapHint, gl.Nicest); err != nil {
		t.Fatalf("Hint: %v", err)
	}

	v, err := ctx.GetParameter(gl.GenerateMipmapHint)
	if err != nil {
		t.Fatalf("GetParameter: %v", err)
	}

	if got, want := v, any(gl.Nicest); got != want {
		t.Fatalf("GENERATE_MIPMAP_HINT=%v, want %v", got, want)
	}

	if diff := cmp.Diff(map[gl.Enum]gl.Enum{gl.GenerateMipmapHint: gl.Nicest}, ctx.Hints()); diff != "" {
		t.Fatalf("hints mismatch (-want +got):\n%s", diff)
	}
}

func Test_Fake_Is_Enabled_Reflects_Capabilities_When_Toggled(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	if got, want := ctx.IsEnabled(gl.Dither), true; got != want {
		t.Fatalf("IsEnabled(DITHER) default=%v, want %v", got, want)
	}

	ctx.Enable(gl.Blend)
	ctx.Disable(gl.Dither)

	if got, want := ctx.IsEnabled(gl.Blend), true; got != want {
		t.Fatalf("IsEnabled(BLEND)=%v, want %v", got, want)
	}

	if got, want := ctx.IsEnabled(gl.Dither), false; got != want {
		t.Fatalf("IsEnabled(DITHER)=%v, want %v", got, want)
	}

	if got, want := ctx.IsEnabled(gl.Vendor), false; got != want {
		t.Fatalf("IsEnabled(VENDOR)=%v, want %v", got, want)
	}

	if got, want := ctx.GetError(), gl.InvalidEnum; got != want {
		t.Fatalf("GetError=%v, want %v", got, want)
	}
}

func Test_Fake_Get_Parameter_Answers_Every_Parameter_Name(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	for _, pname := range gl.ParameterNames.Members() {
		if _, err := ctx.GetParameter(pname); err != nil {
			t.Fatalf("GetParameter(%v): %v", pname, err)
		}

		if got, want := ctx.GetError(), gl.NoError; got != want {
			t.Fatalf("GetParameter(%v) GetError=%v, want %v", pname, got, want)
		}
	}
}

func Test_Fake_Live_Objects_Counts_Undeleted_Objects(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	b1, _ := ctx.CreateBuffer()
	_, _ = ctx.CreateBuffer()
	_, _ = ctx.CreateShader(gl.VertexShader)
	tex, _ := ctx.CreateTexture()

	_ = ctx.DeleteBuffer(b1)
	_ = ctx.DeleteTexture(tex)

	want := map[string]int{"Buffer": 1, "Shader": 1}
	if diff := cmp.Diff(want, ctx.LiveObjects()); diff != "" {
		t.Fatalf("LiveObjects mismatch (-want +got):\n%s", diff)
	}
}

func Test_Fake_Returns_Context_Lost_When_Lost(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()
	buf, _ := ctx.CreateBuffer()

	ctx.LoseContext()

	if _, err := ctx.CreateBuffer(); !errors.Is(err, gl.ErrContextLost) {
		t.Fatalf("CreateBuffer err=%v, want %v", err, gl.ErrContextLost)
	}

	if err := ctx.DeleteBuffer(buf); !errors.Is(err, gl.ErrContextLost) {
		t.Fatalf("DeleteBuffer err=%v, want %v", err, gl.ErrContextLost)
	}

	if got, want := ctx.IsBuffer(buf), false; got != want {
		t.Fatalf("IsBuffer=%v, want %v", got, want)
	}

	if got, want := ctx.GetError(), gl.ContextLostWebGL; got != want {
		t.Fatalf("first GetError=%v, want %v", got, want)
	}

	if got, want := ctx.GetError(), gl.NoError; got != want {
		t.Fatalf("second GetError=%v, want %v", got, want)
	}
}

func Test_Fake_Shader_Keeps_Type_When_Created(t *testing.T) {
	t.Parallel()

	ctx := gl.NewFake()

	sh, err := ctx.CreateShader(gl.FragmentShader)
	if err != nil {
		t.Fatalf("CreateShader: %v", err)
	}

	if got, want := sh.Type(), gl.FragmentShader; got != want {
		t.Fatalf("Type=%v, want %v", got, want)
	}

	bad, err := ctx.CreateShader(gl.Blend)
	if err != nil {
		t.Fatalf("CreateShader(BLEND): %v", err)
	}

	if bad != nil {
		t.Fatalf("CreateShader(BLEND)=%v, want nil", bad)
	}

	if got, want := ctx.GetError(), gl.InvalidEnum; got != want {
		t.Fatalf("GetError=%v, want %v", got, want)
	}
}
