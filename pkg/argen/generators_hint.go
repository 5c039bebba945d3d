package argen

import "github.com/calvinalkan/argfuzz/pkg/gl"

func hintEntries() []Entry {
	return []Entry{
		Implemented("hint", hint()),
	}
}

// hint only exercises GENERATE_MIPMAP_HINT, the one hint target WebGL 1
// defines. Teardown restores the default mode.
func hint() Descriptor {
	unpack := func(args Args) (gl.Enum, gl.Enum, bool) {
		target, okTarget := Arg[gl.Enum](args, 0)
		mode, okMode := Arg[gl.Enum](args, 1)

		return target, mode, okTarget && okMode && len(args) == 2
	}

	return Descriptor{
		Generate: func(env Env, _ Args) (Args, error) {
			return Args{gl.GenerateMipmapHint, gl.MipmapHints.Random(env.Rand)}, nil
		},
		CheckArgValidity: func(_ Env, args Args) bool {
			target, mode, ok := unpack(args)

			return ok && target == gl.GenerateMipmapHint && gl.MipmapHints.Has(mode)
		},
		Call: func(env Env, args Args) (any, error) {
			target, mode, ok := unpack(args)
			if !ok {
				return nil, argErr("hint", args)
			}

			return nil, env.GL.Hint(target, mode)
		},
		Teardown: func(env Env, _ Args) error {
			return env.GL.Hint(gl.GenerateMipmapHint, gl.DontCare)
		},
	}
}
