package gl

import "errors"

var (
	// ErrContextLost is returned by every call on a lost context.
	ErrContextLost = errors.New("gl: context lost")

	// ErrInjected is the root of every fault injected by [Chaos].
	ErrInjected = errors.New("injected fault")
)
