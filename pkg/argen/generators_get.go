package argen

import (
	"fmt"

	"github.com/calvinalkan/argfuzz/pkg/gl"
)

func getEntries() []Entry {
	return []Entry{
		Implemented("getAttribLocation", getAttribLocation()),
		Implemented("getParameter", getParameter()),
		Implemented("getError", getError()),
		Pending("getBufferParameter"),
		Pending("getFramebufferAttachmentParameter"),
		Pending("getProgramParameter"),
		Pending("getProgramInfoLog"),
		Pending("getRenderbufferParameter"),
		Pending("getShaderParameter"),
		Pending("getShaderInfoLog"),
		Pending("getShaderSource"),
		Pending("getTexParameter"),
		Pending("getUniform"),
		Pending("getUniformLocation"),
		Pending("getVertexAttrib"),
		Pending("getVertexAttribOffset"),
	}
}

// getAttribLocation generates (program, name) where name is bound to a
// random attribute index of a fresh program.
func getAttribLocation() Descriptor {
	const op = "getAttribLocation"

	unpack := func(args Args) (*gl.Program, string, bool) {
		program, okProgram := Arg[*gl.Program](args, 0)
		name, okName := Arg[string](args, 1)

		return program, name, okProgram && okName && len(args) == 2
	}

	return Descriptor{
		Generate: func(env Env, _ Args) (Args, error) {
			program, err := env.GL.CreateProgram()
			if err != nil {
				return nil, fmt.Errorf("%s: create program: %w", op, err)
			}

			name := RandomName(env.Rand)

			err = env.GL.BindAttribLocation(program, RandomVertexAttribute(env.Rand), name)
			if err != nil {
				_ = Suppress(func() error { return env.GL.DeleteProgram(program) })

				return nil, fmt.Errorf("%s: bind attribute: %w", op, err)
			}

			return Args{program, name}, nil
		},
		CheckArgValidity: func(env Env, args Args) bool {
			program, name, ok := unpack(args)

			return ok && env.GL.IsProgram(program) && IsValidName(name)
		},
		Call: func(env Env, args Args) (any, error) {
			program, name, ok := unpack(args)
			if !ok {
				return nil, argErr(op, args)
			}

			return env.GL.GetAttribLocation(program, name)
		},
		Cleanup: func(env Env, args Args) error {
			program, ok := Arg[*gl.Program](args, 0)
			if !ok {
				return argErr(op, args)
			}

			return env.GL.DeleteProgram(program)
		},
	}
}

func getParameter() Descriptor {
	return Descriptor{
		Generate: func(env Env, _ Args) (Args, error) {
			return Args{gl.ParameterNames.Random(env.Rand)}, nil
		},
		CheckArgValidity: func(_ Env, args Args) bool {
			pname, ok := Arg[gl.Enum](args, 0)

			return ok && len(args) == 1 && gl.ParameterNames.Has(pname)
		},
		Call: func(env Env, args Args) (any, error) {
			pname, ok := Arg[gl.Enum](args, 0)
			if !ok {
				return nil, argErr("getParameter", args)
			}

			return env.GL.GetParameter(pname)
		},
	}
}

func getError() Descriptor {
	return Descriptor{
		Generate: func(Env, Args) (Args, error) {
			return Args{}, nil
		},
		Call: func(env Env, _ Args) (any, error) {
			return env.GL.GetError(), nil
		},
	}
}
