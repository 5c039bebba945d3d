package gl

import (
	"maps"
	"sync"
)

// Limits reported by [Fake] through GetParameter.
const (
	FakeMaxVertexAttribs = 16
	FakeMaxTextureSize   = 4096
)

// Fake is an in-memory [Context] that tracks object lifetimes and records GL
// errors the way a WebGL implementation does.
//
// It does not model shader compilation or program linking: attribute
// bindings are visible to GetAttribLocation as soon as BindAttribLocation
// records them.
//
// The zero value is not usable; create one with [NewFake].
type Fake struct {
	mu sync.Mutex

	nextName uint32
	glErr    Enum
	lost     bool
	lostSeen bool

	hints   map[Enum]Enum
	enabled map[Enum]bool
	live    map[kind]int
}

var _ Context = (*Fake)(nil)

// NewFake returns a context in the WebGL default state.
func NewFake() *Fake {
	return &Fake{
		hints:   map[Enum]Enum{GenerateMipmapHint: DontCare},
		enabled: map[Enum]bool{Dither: true},
		live:    map[kind]int{},
	}
}

// LoseContext simulates WEBGL_lose_context. Every later call returns
// [ErrContextLost], and the next GetError reports CONTEXT_LOST_WEBGL.
func (f *Fake) LoseContext() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lost = true
}

// Enable turns on a capability. Unknown capabilities record INVALID_ENUM.
func (f *Fake) Enable(capability Enum) {
	f.setCapability(capability, true)
}

// Disable turns off a capability. Unknown capabilities record INVALID_ENUM.
func (f *Fake) Disable(capability Enum) {
	f.setCapability(capability, false)
}

func (f *Fake) setCapability(capability Enum, on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return
	}

	if !EnableCaps.Has(capability) {
		f.record(InvalidEnum)

		return
	}

	f.enabled[capability] = on
}

// LiveObjects returns the number of undeleted objects per type name
// ("Buffer", "Program", ...). Types with no live objects are omitted.
func (f *Fake) LiveObjects() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]int, len(f.live))
	for k, n := range f.live {
		if n > 0 {
			out[k.String()] = n
		}
	}

	return out
}

// Hints returns a copy of the current hint state.
func (f *Fake) Hints() map[Enum]Enum {
	f.mu.Lock()
	defer f.mu.Unlock()

	return maps.Clone(f.hints)
}

// record keeps the first error until GetError clears it. Caller holds f.mu.
func (f *Fake) record(code Enum) {
	if f.glErr == NoError {
		f.glErr = code
	}
}

func (f *Fake) alloc(k kind) (object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return object{}, ErrContextLost
	}

	f.nextName++
	f.live[k]++

	return object{owner: f, name: f.nextName, kind: k}, nil
}

// release marks o deleted. Deleting twice is a no-op, like WebGL.
func (f *Fake) release(o *object) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return ErrContextLost
	}

	if o.owner != f {
		f.record(InvalidOperation)

		return nil
	}

	if o.deleted {
		return nil
	}

	o.deleted = true
	f.live[o.kind]--

	return nil
}

func (f *Fake) alive(o *object) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return !f.lost && o.owner == f && !o.deleted
}

// usable validates an object argument of a non-delete call. Caller holds f.mu.
func (f *Fake) usable(o *object) bool {
	switch {
	case o.owner != f:
		f.record(InvalidOperation)

		return false
	case o.deleted:
		f.record(InvalidValue)

		return false
	default:
		return true
	}
}

func (f *Fake) CreateBuffer() (*Buffer, error) {
	o, err := f.alloc(kindBuffer)
	if err != nil {
		return nil, err
	}

	return &Buffer{object: o}, nil
}

func (f *Fake) DeleteBuffer(b *Buffer) error {
	if b == nil {
		return f.lostErr()
	}

	return f.release(&b.object)
}

func (f *Fake) IsBuffer(b *Buffer) bool {
	return b != nil && f.alive(&b.object)
}

func (f *Fake) CreateFramebuffer() (*Framebuffer, error) {
	o, err := f.alloc(kindFramebuffer)
	if err != nil {
		return nil, err
	}

	return &Framebuffer{object: o}, nil
}

func (f *Fake) DeleteFramebuffer(fb *Framebuffer) error {
	if fb == nil {
		return f.lostErr()
	}

	return f.release(&fb.object)
}

func (f *Fake) IsFramebuffer(fb *Framebuffer) bool {
	return fb != nil && f.alive(&fb.object)
}

func (f *Fake) CreateProgram() (*Program, error) {
	o, err := f.alloc(kindProgram)
	if err != nil {
		return nil, err
	}

	return &Program{object: o, attribs: map[string]uint32{}}, nil
}

func (f *Fake) DeleteProgram(p *Program) error {
	if p == nil {
		return f.lostErr()
	}

	return f.release(&p.object)
}

func (f *Fake) IsProgram(p *Program) bool {
	return p != nil && f.alive(&p.object)
}

func (f *Fake) CreateRenderbuffer() (*Renderbuffer, error) {
	o, err := f.alloc(kindRenderbuffer)
	if err != nil {
		return nil, err
	}

	return &Renderbuffer{object: o}, nil
}

func (f *Fake) DeleteRenderbuffer(r *Renderbuffer) error {
	if r == nil {
		return f.lostErr()
	}

	return f.release(&r.object)
}

func (f *Fake) IsRenderbuffer(r *Renderbuffer) bool {
	return r != nil && f.alive(&r.object)
}

func (f *Fake) CreateShader(typ Enum) (*Shader, error) {
	if !ShaderTypes.Has(typ) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.lost {
			return nil, ErrContextLost
		}

		f.record(InvalidEnum)

		return nil, nil
	}

	o, err := f.alloc(kindShader)
	if err != nil {
		return nil, err
	}

	return &Shader{object: o, typ: typ}, nil
}

func (f *Fake) DeleteShader(s *Shader) error {
	if s == nil {
		return f.lostErr()
	}

	return f.release(&s.object)
}

func (f *Fake) IsShader(s *Shader) bool {
	return s != nil && f.alive(&s.object)
}

func (f *Fake) CreateTexture() (*Texture, error) {
	o, err := f.alloc(kindTexture)
	if err != nil {
		return nil, err
	}

	return &Texture{object: o}, nil
}

func (f *Fake) DeleteTexture(t *Texture) error {
	if t == nil {
		return f.lostErr()
	}

	return f.release(&t.object)
}

func (f *Fake) IsTexture(t *Texture) bool {
	return t != nil && f.alive(&t.object)
}

func (f *Fake) BindAttribLocation(p *Program, index uint32, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return ErrContextLost
	}

	if p == nil {
		f.record(InvalidValue)

		return nil
	}

	if !f.usable(&p.object) {
		return nil
	}

	if index >= FakeMaxVertexAttribs {
		f.record(InvalidValue)

		return nil
	}

	if code := CheckName(name); code != NoError {
		f.record(code)

		return nil
	}

	p.attribs[name] = index

	return nil
}

func (f *Fake) GetAttribLocation(p *Program, name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return -1, ErrContextLost
	}

	if p == nil {
		f.record(InvalidValue)

		return -1, nil
	}

	if !f.usable(&p.object) {
		return -1, nil
	}

	if code := CheckName(name); code != NoError {
		f.record(code)

		return -1, nil
	}

	loc, ok := p.attribs[name]
	if !ok {
		return -1, nil
	}

	return int(loc), nil
}

func (f *Fake) Hint(target, mode Enum) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return ErrContextLost
	}

	if target != GenerateMipmapHint || !MipmapHints.Has(mode) {
		f.record(InvalidEnum)

		return nil
	}

	f.hints[target] = mode

	return nil
}

func (f *Fake) IsEnabled(capability Enum) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return false
	}

	if !EnableCaps.Has(capability) {
		f.record(InvalidEnum)

		return false
	}

	return f.enabled[capability]
}

func (f *Fake) GetParameter(pname Enum) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return nil, ErrContextLost
	}

	switch pname {
	case ActiveTexture:
		return Texture0, nil
	case ArrayBufferBinding, ElementArrayBufferBinding, CurrentProgram,
		FramebufferBinding, RenderbufferBinding:
		return nil, nil
	case GenerateMipmapHint:
		return f.hints[GenerateMipmapHint], nil
	case LineWidth:
		return 1.0, nil
	case MaxCombinedTextureImageUnits:
		return 32, nil
	case MaxCubeMapTextureSize, MaxTextureSize, MaxRenderbufferSize:
		return FakeMaxTextureSize, nil
	case MaxFragmentUniformVectors:
		return 224, nil
	case MaxTextureImageUnits, MaxVertexTextureImageUnits:
		return 16, nil
	case MaxVaryingVectors:
		return 15, nil
	case MaxVertexAttribs:
		return FakeMaxVertexAttribs, nil
	case MaxVertexUniformVectors:
		return 256, nil
	case Renderer:
		return "argfuzz fake renderer", nil
	case ShadingLanguageVersion:
		return "WebGL GLSL ES 1.0 (argfuzz)", nil
	case UnpackColorspaceConversionWeb:
		return 0x9244, nil
	case UnpackFlipYWebGL, UnpackPremultiplyAlphaWebGL:
		return false, nil
	case Vendor:
		return "argfuzz", nil
	case Version:
		return "WebGL 1.0 (argfuzz)", nil
	default:
		f.record(InvalidEnum)

		return nil, nil
	}
}

func (f *Fake) GetError() Enum {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		if f.lostSeen {
			return NoError
		}

		f.lostSeen = true

		return ContextLostWebGL
	}

	code := f.glErr
	f.glErr = NoError

	return code
}

func (f *Fake) lostErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lost {
		return ErrContextLost
	}

	return nil
}
