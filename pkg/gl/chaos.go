package gl

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
//
// The zero value disables all fault injection.
type ChaosConfig struct {
	// CreateFailRate controls how often Create* calls fail, returning a nil
	// object and an injected error.
	CreateFailRate float64

	// DeleteFailRate controls how often Delete* calls report an error. When
	// injected, the object is left undeleted, like a release that never
	// reached the driver.
	DeleteFailRate float64

	// CallFailRate controls how often BindAttribLocation, GetAttribLocation,
	// Hint and GetParameter fail before reaching the wrapped context.
	CallFailRate float64

	// PanicRate controls how often any Create*, Delete* or call above panics
	// instead of returning. The panic value is an injected error.
	PanicRate float64
}

// ChaosMode controls how [Chaos] behaves.
type ChaosMode uint8

const (
	// ChaosModeActive enables fault-rate injection.
	// This is the default mode for a new [Chaos].
	ChaosModeActive ChaosMode = iota

	// ChaosModeNoOp passes every operation directly to the wrapped context.
	ChaosModeNoOp
)

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	CreateFails int64
	DeleteFails int64
	CallFails   int64
	Panics      int64
}

// Total returns the sum of all counters.
func (s ChaosStats) Total() int64 {
	return s.CreateFails + s.DeleteFails + s.CallFails + s.Panics
}

// chaosError marks an error as intentionally injected by [Chaos].
//
// It wraps the underlying error so errors.Is/As continue to work.
type chaosError struct {
	Err error
}

func (e *chaosError) Error() string {
	return "chaos: " + e.Err.Error()
}

func (e *chaosError) Unwrap() error {
	return e.Err
}

// IsChaosErr reports whether err (or any wrapped error) was injected by [Chaos].
// Returns false if err is nil.
func IsChaosErr(err error) bool {
	var injected *chaosError

	return errors.As(err, &injected)
}

// Chaos wraps a [Context] and injects random failures for testing.
//
// Fault model:
//   - Injected errors wrap [ErrInjected] or, for a quarter of them,
//     [ErrContextLost], so callers can match either with errors.Is. Use
//     [IsChaosErr] to tell injected faults from real ones.
//   - Injected panics carry an injected error as the panic value.
//   - Is*, IsEnabled and GetError are never faulted. WebGL queries cannot
//     fail, so they always reach the wrapped context.
//   - Chaos keeps no per-object state; each call independently decides
//     whether to inject.
type Chaos struct {
	ctx    Context
	rng    *rand.Rand
	config ChaosConfig
	mode   atomic.Uint32

	rngMu sync.Mutex

	createFails atomic.Int64
	deleteFails atomic.Int64
	callFails   atomic.Int64
	panics      atomic.Int64
}

var _ Context = (*Chaos)(nil)

// NewChaos creates a [Chaos] context wrapping underlying.
// The seed controls random fault injection for reproducibility.
// Panics if underlying is nil.
func NewChaos(underlying Context, seed uint64, config ChaosConfig) *Chaos {
	if underlying == nil {
		panic("gl: underlying context is nil")
	}

	return &Chaos{
		ctx:    underlying,
		rng:    rand.New(rand.NewPCG(seed, seed)),
		config: config,
	}
}

// SetMode updates [Chaos] behavior. Safe to call concurrently with other calls.
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		CreateFails: c.createFails.Load(),
		DeleteFails: c.deleteFails.Load(),
		CallFails:   c.callFails.Load(),
		Panics:      c.panics.Load(),
	}
}

// Unwrap returns the wrapped context.
func (c *Chaos) Unwrap() Context {
	return c.ctx
}

func (c *Chaos) getMode() ChaosMode {
	v := c.mode.Load()
	if v > uint32(ChaosModeNoOp) {
		return ChaosModeActive
	}

	return ChaosMode(v)
}

func (c *Chaos) should(rate float64) bool {
	if c.getMode() != ChaosModeActive || rate <= 0 {
		return false
	}

	c.rngMu.Lock()
	result := c.rng.Float64()
	c.rngMu.Unlock()

	return result < rate
}

// fault decides whether op fails. It panics for PanicRate, returns an
// injected error for rate, and returns nil otherwise.
func (c *Chaos) fault(op string, rate float64, counter *atomic.Int64) error {
	if c.should(c.config.PanicRate) {
		c.panics.Add(1)
		panic(c.injected(op))
	}

	if c.should(rate) {
		counter.Add(1)

		return c.injected(op)
	}

	return nil
}

func (c *Chaos) injected(op string) error {
	c.rngMu.Lock()
	lost := c.rng.IntN(4) == 0
	c.rngMu.Unlock()

	root := ErrInjected
	if lost {
		root = ErrContextLost
	}

	return &chaosError{Err: fmt.Errorf("%s: %w", op, root)}
}

func (c *Chaos) createFault(op string) error {
	return c.fault(op, c.config.CreateFailRate, &c.createFails)
}

func (c *Chaos) deleteFault(op string) error {
	return c.fault(op, c.config.DeleteFailRate, &c.deleteFails)
}

func (c *Chaos) callFault(op string) error {
	return c.fault(op, c.config.CallFailRate, &c.callFails)
}

func (c *Chaos) CreateBuffer() (*Buffer, error) {
	if err := c.createFault("createBuffer"); err != nil {
		return nil, err
	}

	return c.ctx.CreateBuffer()
}

func (c *Chaos) DeleteBuffer(b *Buffer) error {
	if err := c.deleteFault("deleteBuffer"); err != nil {
		return err
	}

	return c.ctx.DeleteBuffer(b)
}

func (c *Chaos) IsBuffer(b *Buffer) bool { return c.ctx.IsBuffer(b) }

func (c *Chaos) CreateFramebuffer() (*Framebuffer, error) {
	if err := c.createFault("createFramebuffer"); err != nil {
		return nil, err
	}

	return c.ctx.CreateFramebuffer()
}

func (c *Chaos) DeleteFramebuffer(f *Framebuffer) error {
	if err := c.deleteFault("deleteFramebuffer"); err != nil {
		return err
	}

	return c.ctx.DeleteFramebuffer(f)
}

func (c *Chaos) IsFramebuffer(f *Framebuffer) bool { return c.ctx.IsFramebuffer(f) }

func (c *Chaos) CreateProgram() (*Program, error) {
	if err := c.createFault("createProgram"); err != nil {
		return nil, err
	}

	return c.ctx.CreateProgram()
}

func (c *Chaos) DeleteProgram(p *Program) error {
	if err := c.deleteFault("deleteProgram"); err != nil {
		return err
	}

	return c.ctx.DeleteProgram(p)
}

func (c *Chaos) IsProgram(p *Program) bool { return c.ctx.IsProgram(p) }

func (c *Chaos) CreateRenderbuffer() (*Renderbuffer, error) {
	if err := c.createFault("createRenderbuffer"); err != nil {
		return nil, err
	}

	return c.ctx.CreateRenderbuffer()
}

func (c *Chaos) DeleteRenderbuffer(r *Renderbuffer) error {
	if err := c.deleteFault("deleteRenderbuffer"); err != nil {
		return err
	}

	return c.ctx.DeleteRenderbuffer(r)
}

func (c *Chaos) IsRenderbuffer(r *Renderbuffer) bool { return c.ctx.IsRenderbuffer(r) }

func (c *Chaos) CreateShader(typ Enum) (*Shader, error) {
	if err := c.createFault("createShader"); err != nil {
		return nil, err
	}

	return c.ctx.CreateShader(typ)
}

func (c *Chaos) DeleteShader(s *Shader) error {
	if err := c.deleteFault("deleteShader"); err != nil {
		return err
	}

	return c.ctx.DeleteShader(s)
}

func (c *Chaos) IsShader(s *Shader) bool { return c.ctx.IsShader(s) }

func (c *Chaos) CreateTexture() (*Texture, error) {
	if err := c.createFault("createTexture"); err != nil {
		return nil, err
	}

	return c.ctx.CreateTexture()
}

func (c *Chaos) DeleteTexture(t *Texture) error {
	if err := c.deleteFault("deleteTexture"); err != nil {
		return err
	}

	return c.ctx.DeleteTexture(t)
}

func (c *Chaos) IsTexture(t *Texture) bool { return c.ctx.IsTexture(t) }

func (c *Chaos) BindAttribLocation(p *Program, index uint32, name string) error {
	if err := c.callFault("bindAttribLocation"); err != nil {
		return err
	}

	return c.ctx.BindAttribLocation(p, index, name)
}

func (c *Chaos) GetAttribLocation(p *Program, name string) (int, error) {
	if err := c.callFault("getAttribLocation"); err != nil {
		return -1, err
	}

	return c.ctx.GetAttribLocation(p, name)
}

func (c *Chaos) Hint(target, mode Enum) error {
	if err := c.callFault("hint"); err != nil {
		return err
	}

	return c.ctx.Hint(target, mode)
}

func (c *Chaos) IsEnabled(capability Enum) bool { return c.ctx.IsEnabled(capability) }

func (c *Chaos) GetParameter(pname Enum) (any, error) {
	if err := c.callFault("getParameter"); err != nil {
		return nil, err
	}

	return c.ctx.GetParameter(pname)
}

func (c *Chaos) GetError() Enum { return c.ctx.GetError() }
