package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/argfuzz/internal/config"
	"github.com/calvinalkan/argfuzz/internal/runner"
	"github.com/calvinalkan/argfuzz/pkg/argen"
	"github.com/calvinalkan/argfuzz/pkg/gl"

	flag "github.com/spf13/pflag"
)

// ShellCmd returns the shell command.
func ShellCmd(cfg *config.Config, env map[string]string) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive fuzzing shell",
		Long: `Start an interactive shell that runs operations one at a time against a
single fake context that persists between commands, so state left behind by
one run is visible to the next. Type 'help' inside the shell for commands.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return errTooManyArgs
			}

			lines, err := newLineReader(o.In(), env)
			if err != nil {
				return err
			}
			defer lines.Close()

			sh := newShell(o, cfg)

			return sh.loop(ctx, lines)
		},
	}
}

// lineReader is the part of *liner.State the shell uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// newLineReader uses liner for an interactive terminal and a plain line
// scanner otherwise, so the shell can be scripted through a pipe.
func newLineReader(in io.Reader, env map[string]string) (lineReader, error) {
	if f, ok := in.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		state.SetCompleter(completeShell)

		hist := &linerHistory{State: state, path: historyFile(env)}
		hist.load()

		return hist, nil
	}

	if in == nil {
		return nil, errors.New("shell needs stdin")
	}

	return &scanReader{scanner: bufio.NewScanner(in)}, nil
}

// linerHistory persists liner history on Close.
type linerHistory struct {
	*liner.State
	path string
}

func (h *linerHistory) load() {
	if h.path == "" {
		return
	}

	if f, err := os.Open(h.path); err == nil {
		_, _ = h.ReadHistory(f)
		_ = f.Close()
	}
}

func (h *linerHistory) Close() error {
	if h.path != "" {
		if f, err := os.Create(h.path); err == nil {
			_, _ = h.WriteHistory(f)
			_ = f.Close()
		}
	}

	return h.State.Close()
}

func historyFile(env map[string]string) string {
	home := env["HOME"]
	if home == "" {
		return ""
	}

	return filepath.Join(home, ".argfuzz_history")
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	if err := r.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

var shellCommands = []string{"list", "show", "run", "seed", "live", "help", "exit", "quit"}

func completeShell(line string) []string {
	fields := strings.Fields(line)

	if len(fields) <= 1 && !strings.HasSuffix(line, " ") {
		return prefixed(shellCommands, "", strings.ToLower(line))
	}

	switch fields[0] {
	case "show", "run":
		partial := ""
		if len(fields) > 1 {
			partial = fields[1]
		}

		return prefixed(argen.Default().Names(), fields[0]+" ", partial)
	default:
		return nil
	}
}

func prefixed(candidates []string, lead, partial string) []string {
	var out []string

	for _, c := range candidates {
		if strings.HasPrefix(c, partial) {
			out = append(out, lead+c)
		}
	}

	return out
}

// shell holds the state shared by every command typed into one session.
type shell struct {
	io   *IO
	reg  *argen.Registry
	fake *gl.Fake
	seed uint64
	rng  *rand.Rand
	n    int
}

func newShell(o *IO, cfg *config.Config) *shell {
	sh := &shell{
		io:   o,
		reg:  argen.Default(),
		fake: gl.NewFake(),
		n:    cfg.Iterations,
	}

	sh.reseed(cfg.Seed)

	return sh
}

func (sh *shell) reseed(seed uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}

	sh.seed = seed
	sh.rng = rand.New(rand.NewPCG(seed, seed))
}

func (sh *shell) loop(ctx context.Context, lines lineReader) error {
	sh.io.Printf("argfuzz shell (seed=%d). Type 'help' for commands.\n", sh.seed)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := lines.Prompt("argfuzz> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lines.AppendHistory(line)

		parts := strings.Fields(line)
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			sh.printHelp()
		case "list", "ls":
			_ = execList(sh.io, sh.reg, len(args) > 0 && args[0] == "--all")
		case "show":
			sh.report(execShow(sh.io, sh.reg, args))
		case "run":
			sh.report(sh.run(ctx, args))
		case "seed":
			sh.report(sh.setSeed(args))
		case "live":
			sh.printLive()
		default:
			sh.io.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (sh *shell) report(err error) {
	if err != nil {
		sh.io.Println("error:", err)
	}
}

func (sh *shell) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errOpRequired
	}

	if len(args) > 2 {
		return errTooManyArgs
	}

	n := sh.n

	if len(args) == 2 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil || parsed <= 0 {
			return fmt.Errorf("iterations must be a positive integer: %s", args[1])
		}

		n = parsed
	}

	id := args[0]

	d, ok := sh.reg.Lookup(id)
	if !ok {
		sh.io.Printf("%s: unavailable (%s)\n", id, sh.reg.Status(id))

		return nil
	}

	env := argen.Env{GL: sh.fake, Rand: sh.rng}

	r, err := runner.Run(ctx, env, id, d, n)
	printReport(sh.io, r)

	return err
}

func (sh *shell) setSeed(args []string) error {
	if len(args) == 0 {
		sh.io.Printf("seed=%d\n", sh.seed)

		return nil
	}

	seed, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seed: %s", args[0])
	}

	sh.reseed(seed)
	sh.io.Printf("seed=%d\n", sh.seed)

	return nil
}

func (sh *shell) printLive() {
	live := sh.fake.LiveObjects()
	if len(live) == 0 {
		sh.io.Println("no live objects")

		return
	}

	for _, kind := range slices.Sorted(maps.Keys(live)) {
		sh.io.Printf("%s=%d\n", kind, live[kind])
	}
}

func (sh *shell) printHelp() {
	sh.io.Println("Commands:")
	sh.io.Println("  list [--all]          List fuzzable operations")
	sh.io.Println("  show <op>             Show an operation's callbacks")
	sh.io.Println("  run <op> [n]          Fuzz one operation n times on the shared context")
	sh.io.Println("  seed [s]              Show or set the random seed")
	sh.io.Println("  live                  Show objects still alive on the context")
	sh.io.Println("  help                  Show this help")
	sh.io.Println("  exit / quit / q       Exit")
}
