// Package gl provides a WebGL-style capability object for fuzzing API entry points.
//
// The main types are:
//   - [Context]: interface for the resource, state and query operations
//   - [Fake]: in-memory reference implementation with WebGL-like error semantics
//   - [Chaos]: testing implementation that injects random failures
//
// Errors follow the WebGL split. Misuse of the API (bad enums, deleted or
// foreign objects, invalid names) never returns a Go error. It records a GL
// error code that [Context.GetError] reports and clears, exactly like a real
// context. A returned Go error means the context itself failed, for example
// because it was lost or because [Chaos] injected a fault.
//
// Example usage:
//
//	ctx := gl.NewFake()
//	buf, err := ctx.CreateBuffer()
//	if err != nil {
//	    return err
//	}
//	defer ctx.DeleteBuffer(buf)
//
//	if ctx.GetError() != gl.NoError {
//	    // the previous call was rejected
//	}
package gl

import "fmt"

// Source is the randomness consumed by [EnumSet.Random].
//
// It is satisfied by *math/rand/v2.Rand and by fuzz byte streams.
type Source interface {
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
}

// Context is the subset of a WebGL rendering context that argument
// generators drive.
//
// Nil object arguments are legal and behave like WebGL null.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Context interface {
	CreateBuffer() (*Buffer, error)
	DeleteBuffer(b *Buffer) error
	IsBuffer(b *Buffer) bool

	CreateFramebuffer() (*Framebuffer, error)
	DeleteFramebuffer(f *Framebuffer) error
	IsFramebuffer(f *Framebuffer) bool

	CreateProgram() (*Program, error)
	DeleteProgram(p *Program) error
	IsProgram(p *Program) bool

	CreateRenderbuffer() (*Renderbuffer, error)
	DeleteRenderbuffer(r *Renderbuffer) error
	IsRenderbuffer(r *Renderbuffer) bool

	// CreateShader returns a nil shader and records INVALID_ENUM when typ is
	// not one of [ShaderTypes].
	CreateShader(typ Enum) (*Shader, error)
	DeleteShader(s *Shader) error
	IsShader(s *Shader) bool

	CreateTexture() (*Texture, error)
	DeleteTexture(t *Texture) error
	IsTexture(t *Texture) bool

	// BindAttribLocation associates a generic vertex attribute index with a
	// named attribute variable of p.
	BindAttribLocation(p *Program, index uint32, name string) error

	// GetAttribLocation returns the location bound to name, or -1.
	GetAttribLocation(p *Program, name string) (int, error)

	Hint(target, mode Enum) error
	IsEnabled(capability Enum) bool

	// GetParameter returns nil and records INVALID_ENUM for unknown pnames.
	GetParameter(pname Enum) (any, error)

	// GetError returns the first error recorded since the last call and
	// resets the error flag to [NoError].
	GetError() Enum
}

// kind identifies the type of a GL object.
type kind uint8

const (
	kindBuffer kind = iota + 1
	kindFramebuffer
	kindProgram
	kindRenderbuffer
	kindShader
	kindTexture
)

func (k kind) String() string {
	switch k {
	case kindBuffer:
		return "Buffer"
	case kindFramebuffer:
		return "Framebuffer"
	case kindProgram:
		return "Program"
	case kindRenderbuffer:
		return "Renderbuffer"
	case kindShader:
		return "Shader"
	case kindTexture:
		return "Texture"
	default:
		return "Object"
	}
}

// object is the state shared by every handle type.
//
// deleted is guarded by the owning context's mutex.
type object struct {
	owner   *Fake
	name    uint32
	kind    kind
	deleted bool
}

// Name returns the object name assigned by the context that created it.
func (o *object) Name() uint32 {
	return o.name
}

func (o *object) String() string {
	return fmt.Sprintf("%s#%d", o.kind, o.name)
}

// Buffer is a WebGLBuffer handle.
type Buffer struct{ object }

// Framebuffer is a WebGLFramebuffer handle.
type Framebuffer struct{ object }

// Program is a WebGLProgram handle.
type Program struct {
	object

	// attribs holds BindAttribLocation results. Guarded by owner.mu.
	attribs map[string]uint32
}

// Renderbuffer is a WebGLRenderbuffer handle.
type Renderbuffer struct{ object }

// Shader is a WebGLShader handle.
type Shader struct {
	object

	typ Enum
}

// Type returns the shader type passed to CreateShader.
func (s *Shader) Type() Enum {
	return s.typ
}

// Texture is a WebGLTexture handle.
type Texture struct{ object }
