package argen

import (
	"fmt"

	"github.com/calvinalkan/argfuzz/pkg/gl"
)

func isEntries() []Entry {
	return []Entry{
		Implemented("isBuffer", isObject("isBuffer",
			func(env Env) (*gl.Buffer, error) { return env.GL.CreateBuffer() },
			gl.Context.DeleteBuffer, gl.Context.IsBuffer)),
		Implemented("isEnabled", isEnabled()),
		Implemented("isFramebuffer", isObject("isFramebuffer",
			func(env Env) (*gl.Framebuffer, error) { return env.GL.CreateFramebuffer() },
			gl.Context.DeleteFramebuffer, gl.Context.IsFramebuffer)),
		Implemented("isProgram", isObject("isProgram",
			func(env Env) (*gl.Program, error) { return env.GL.CreateProgram() },
			gl.Context.DeleteProgram, gl.Context.IsProgram)),
		Implemented("isRenderbuffer", isObject("isRenderbuffer",
			func(env Env) (*gl.Renderbuffer, error) { return env.GL.CreateRenderbuffer() },
			gl.Context.DeleteRenderbuffer, gl.Context.IsRenderbuffer)),
		Implemented("isShader", isObject("isShader",
			func(env Env) (*gl.Shader, error) { return env.GL.CreateShader(gl.ShaderTypes.Random(env.Rand)) },
			gl.Context.DeleteShader, gl.Context.IsShader)),
		Implemented("isTexture", isObject("isTexture",
			func(env Env) (*gl.Texture, error) { return env.GL.CreateTexture() },
			gl.Context.DeleteTexture, gl.Context.IsTexture)),
	}
}

// isObject builds the descriptor shared by the is* queries: generate one
// fresh object, query it, delete it.
func isObject[T any](
	op string,
	create func(env Env) (T, error),
	del func(ctx gl.Context, obj T) error,
	is func(ctx gl.Context, obj T) bool,
) Descriptor {
	return Descriptor{
		Generate: func(env Env, _ Args) (Args, error) {
			obj, err := create(env)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			return Args{obj}, nil
		},
		Call: func(env Env, args Args) (any, error) {
			obj, ok := Arg[T](args, 0)
			if !ok || len(args) != 1 {
				return nil, argErr(op, args)
			}

			return is(env.GL, obj), nil
		},
		Cleanup: func(env Env, args Args) error {
			obj, ok := Arg[T](args, 0)
			if !ok {
				return argErr(op, args)
			}

			return del(env.GL, obj)
		},
	}
}

func isEnabled() Descriptor {
	return Descriptor{
		Generate: func(env Env, _ Args) (Args, error) {
			return Args{gl.EnableCaps.Random(env.Rand)}, nil
		},
		CheckArgValidity: func(_ Env, args Args) bool {
			capability, ok := Arg[gl.Enum](args, 0)

			return ok && len(args) == 1 && gl.EnableCaps.Has(capability)
		},
		Call: func(env Env, args Args) (any, error) {
			capability, ok := Arg[gl.Enum](args, 0)
			if !ok {
				return nil, argErr("isEnabled", args)
			}

			return env.GL.IsEnabled(capability), nil
		},
	}
}
