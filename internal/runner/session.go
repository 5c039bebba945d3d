package runner

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/calvinalkan/argfuzz/pkg/argen"
	"github.com/calvinalkan/argfuzz/pkg/gl"
)

// Options configures [RunAll].
type Options struct {
	// Iterations per operation. Must be > 0.
	Iterations int

	// Seed for argument generation and fault injection. Zero picks a seed
	// from the clock; the chosen seed is recorded on the session.
	Seed uint64

	// Chaos enables fault injection when any rate is non-zero.
	Chaos gl.ChaosConfig

	// NewContext returns a fresh context per operation. Defaults to
	// gl.NewFake.
	NewContext func() gl.Context

	// Now defaults to time.Now.
	Now func() time.Time
}

// Skip records an operation that was requested but not run.
type Skip struct {
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

// Session is the outcome of one [RunAll] call.
type Session struct {
	ID         uuid.UUID       `json:"id"`
	Seed       uint64          `json:"seed"`
	Iterations int             `json:"iterations"`
	Chaos      *gl.ChaosConfig `json:"chaos,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Reports    []Report        `json:"reports"`
	Skipped    []Skip          `json:"skipped,omitempty"`
}

// FindingCount returns the number of findings across all reports.
func (s *Session) FindingCount() int {
	n := 0
	for _, r := range s.Reports {
		n += len(r.Findings)
	}

	return n
}

// Failed reports whether any operation produced a finding, stopped on a
// generator fault or leaked objects on a healthy context.
func (s *Session) Failed() bool {
	for _, r := range s.Reports {
		if len(r.Findings) > 0 || r.Error != "" {
			return true
		}

		if s.Chaos == nil && len(r.Leaked) > 0 {
			return true
		}
	}

	return false
}

// ErrNoIterations is returned by [RunAll] when Options.Iterations is not
// positive.
var ErrNoIterations = errors.New("iterations must be > 0")

// RunAll runs each of ids from reg, or every available operation when ids
// is empty. Unknown and unimplemented identifiers are skipped. Each
// operation gets its own context and a random stream derived from the seed
// and the operation name, so a single operation replays identically
// whatever else was selected.
//
// A generator fault stops only its own operation. The returned error is
// non-nil only when ctx is cancelled; the partial session is still
// returned.
func RunAll(ctx context.Context, reg *argen.Registry, ids []string, opts Options) (*Session, error) {
	if opts.Iterations <= 0 {
		return nil, ErrNoIterations
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	newContext := opts.NewContext
	if newContext == nil {
		newContext = func() gl.Context { return gl.NewFake() }
	}

	if len(ids) == 0 {
		ids = reg.Names()
	}

	s := &Session{
		ID:         uuid.New(),
		Seed:       opts.Seed,
		Iterations: opts.Iterations,
		StartedAt:  now(),
	}

	if s.Seed == 0 {
		s.Seed = uint64(s.StartedAt.UnixNano())
	}

	chaotic := opts.Chaos != (gl.ChaosConfig{})
	if chaotic {
		cfg := opts.Chaos
		s.Chaos = &cfg
	}

	log := argen.Logger().With("session", s.ID.String())
	log.Info("session start", "seed", s.Seed, "operations", len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			s.FinishedAt = now()

			return s, err
		}

		d, ok := reg.Lookup(id)
		if !ok {
			reason := reg.Status(id).String()
			s.Skipped = append(s.Skipped, Skip{Operation: id, Reason: reason})
			log.Info("operation skipped", "op", id, "reason", reason)

			continue
		}

		opSeed := s.Seed ^ hashID(id)
		base := newContext()

		env := argen.Env{GL: base, Rand: rand.New(rand.NewPCG(s.Seed, hashID(id)))}
		if chaotic {
			env.GL = gl.NewChaos(base, opSeed, opts.Chaos)
		}

		report, err := Run(ctx, env, id, d, opts.Iterations)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.Reports = append(s.Reports, report)
				s.FinishedAt = now()

				return s, err
			}

			report.Error = err.Error()
		}

		if counter, ok := base.(interface{ LiveObjects() map[string]int }); ok {
			if live := counter.LiveObjects(); len(live) > 0 {
				report.Leaked = live
			}
		}

		s.Reports = append(s.Reports, report)
	}

	s.FinishedAt = now()
	log.Info("session done", "findings", s.FindingCount(), "skipped", len(s.Skipped))

	return s, nil
}

func hashID(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))

	return h.Sum64()
}
