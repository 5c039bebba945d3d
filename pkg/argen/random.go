package argen

import (
	"strings"

	"github.com/calvinalkan/argfuzz/pkg/gl"
)

// MinVertexAttribs is the vertex attribute count every WebGL implementation
// must support. Generated attribute indices stay below it.
const MinVertexAttribs = 8

const maxRandomNameLength = 16

const (
	nameStart = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
	nameRest  = nameStart + "0123456789"
)

// RandomName returns a random shader variable name that [IsValidName] accepts.
func RandomName(src Source) string {
	n := 1 + src.IntN(maxRandomNameLength)

	var b strings.Builder

	b.Grow(n + 1)
	b.WriteByte(nameStart[src.IntN(len(nameStart))])

	for range n - 1 {
		b.WriteByte(nameRest[src.IntN(len(nameRest))])
	}

	name := b.String()
	if gl.IsReservedName(name) {
		name = "a" + name
	}

	return name
}

// IsValidName reports whether name can be bound as an attribute.
func IsValidName(name string) bool {
	return gl.CheckName(name) == gl.NoError
}

// RandomVertexAttribute returns a random attribute index below
// [MinVertexAttribs].
func RandomVertexAttribute(src Source) uint32 {
	return uint32(src.IntN(MinVertexAttribs))
}
