package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/argfuzz/internal/config"
	"github.com/calvinalkan/argfuzz/internal/findings"
	"github.com/calvinalkan/argfuzz/internal/runner"
	"github.com/calvinalkan/argfuzz/pkg/argen"

	flag "github.com/spf13/pflag"
)

// FuzzCmd returns the run command.
func FuzzCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.IntP("iterations", "n", 0, "Iterations per operation (default from config)")
	fs.Uint64("seed", 0, "Seed for generation and fault injection (0 = random)")
	fs.Float64("chaos-rate", 0, "Fault rate for create, delete and call injection")
	fs.Float64("panic-rate", 0, "Rate at which injected faults panic instead")
	fs.String("report", "", "Write the session as JSON to `file`")
	fs.Bool("no-store", false, "Do not save the session in the findings database")

	return &Command{
		Flags: fs,
		Usage: "run [op...] [flags]",
		Short: "Fuzz operations against a fake context",
		Long: `Fuzz the named operations, or the configured ones, or every available one.

Each operation runs against a fresh fake context, chaos-wrapped when any
fault rate is set. Unknown and unimplemented operations are skipped. The
session is stored in the findings database unless --no-store is given.
Exits 1 when any operation produced a finding.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execFuzz(ctx, io, cfg, fs, args)
		},
	}
}

func execFuzz(ctx context.Context, io *IO, cfg *config.Config, fs *flag.FlagSet, args []string) error {
	resolved := *cfg

	if fs.Changed("iterations") {
		resolved.Iterations, _ = fs.GetInt("iterations")
	}

	if fs.Changed("seed") {
		resolved.Seed, _ = fs.GetUint64("seed")
	}

	if fs.Changed("chaos-rate") {
		rate, _ := fs.GetFloat64("chaos-rate")
		resolved.Chaos.CreateFailRate = rate
		resolved.Chaos.DeleteFailRate = rate
		resolved.Chaos.CallFailRate = rate
	}

	if fs.Changed("panic-rate") {
		resolved.Chaos.PanicRate, _ = fs.GetFloat64("panic-rate")
	}

	if err := resolved.Validate(); err != nil {
		return err
	}

	ops := args
	if len(ops) == 0 {
		ops = resolved.Operations
	}

	sess, runErr := runner.RunAll(ctx, argen.Default(), ops, runner.Options{
		Iterations: resolved.Iterations,
		Seed:       resolved.Seed,
		Chaos:      resolved.Chaos.GL(),
	})
	if sess == nil {
		return runErr
	}

	printSession(io, sess)

	noStore, _ := fs.GetBool("no-store")
	if !noStore {
		if err := storeSession(resolved.FindingsDBAbs, sess); err != nil {
			io.Warn("session not stored: "+err.Error(), "check findings_db or pass --no-store")
		}
	}

	if reportPath, _ := fs.GetString("report"); reportPath != "" {
		if !filepath.IsAbs(reportPath) {
			reportPath = filepath.Join(resolved.EffectiveCwd, reportPath)
		}

		if err := writeReport(reportPath, sess); err != nil {
			return err
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return errInterrupted
		}

		return runErr
	}

	if sess.Failed() {
		return fmt.Errorf("%w: %d finding(s) in session %s", errFindings, sess.FindingCount(), sess.ID)
	}

	return nil
}

func printSession(io *IO, sess *runner.Session) {
	io.Printf("session %s seed=%d iterations=%d\n", sess.ID, sess.Seed, sess.Iterations)

	for _, r := range sess.Reports {
		printReport(io, r)
	}

	for _, s := range sess.Skipped {
		io.Printf("skipped %s (%s)\n", s.Operation, s.Reason)
	}
}

func printReport(io *IO, r runner.Report) {
	io.Printf("%-18s iterations=%d valid=%d invalid=%d failures=%d injected=%d suppressed=%d findings=%d\n",
		r.Operation, r.Iterations, r.ValidArgs, r.InvalidArgs, r.CallFailures,
		r.InjectedFaults, r.SuppressedFaults, len(r.Findings))

	if r.Error != "" {
		io.Printf("  error: %s\n", r.Error)
	}

	for _, kind := range slices.Sorted(maps.Keys(r.Leaked)) {
		io.Printf("  leaked %d %s\n", r.Leaked[kind], kind)
	}

	for _, f := range r.Findings {
		io.Println("  " + formatFinding(r.Operation, f))
	}
}

func formatFinding(op string, f runner.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d %s %s(%s)", f.Iteration, f.Kind, op, strings.Join(f.Args, ", "))

	if f.GLError != "" {
		fmt.Fprintf(&b, " gl_error=%s", f.GLError)
	}

	if f.Err != "" {
		fmt.Fprintf(&b, " error=%q", f.Err)
	}

	return b.String()
}

func storeSession(path string, sess *runner.Session) error {
	store, err := findings.Open(path)
	if err != nil {
		return err
	}

	putErr := store.Put(sess)
	closeErr := store.Close()

	return errors.Join(putErr, closeErr)
}

func writeReport(path string, sess *runner.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
