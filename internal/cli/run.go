// Package cli implements the argfuzz command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/argfuzz/internal/config"
	"github.com/calvinalkan/argfuzz/pkg/argen"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. The first signal received cancels the running command;
// commands stop at the next iteration boundary and still report what they
// collected.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("argfuzz", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	verbose := globals.BoolP("verbose", "v", false, "Log run progress to stderr")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut)

		return 1
	}

	rest := globals.Args()

	if *help || len(rest) == 0 {
		printUsage(out)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if *verbose {
		argen.SetLogger(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer argen.SetLogger(nil)
	}

	commands := commandList(&cfg, env)

	name := rest[0]

	var cmd *Command

	for _, c := range commands {
		if c.Name() == name {
			cmd = c

			break
		}
	}

	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		printUsage(errOut)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(stdin, out, errOut), rest[1:])
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func commandList(cfg *config.Config, env map[string]string) []*Command {
	return []*Command{
		ListCmd(),
		ShowCmd(),
		FuzzCmd(cfg),
		FindingsCmd(cfg),
		ShellCmd(cfg, env),
		PrintConfigCmd(cfg),
	}
}

func printUsage(w io.Writer) {
	cfg := config.Default()

	fprintln(w, `argfuzz - argument-generator fuzzer for a WebGL-style context

Usage: argfuzz [options] <command> [args]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  -c, --config <file>    Use specified config file
  -v, --verbose          Log run progress to stderr
  -h, --help             Show help

Commands:`)

	for _, c := range commandList(&cfg, nil) {
		fprintln(w, c.HelpLine())
	}

	fprintln(w, `
Run 'argfuzz <command> --help' for command flags.`)
}

var (
	errOpRequired  = errors.New("operation name required")
	errTooManyArgs = errors.New("too many arguments")
	errFindings    = errors.New("run produced findings")
	errInterrupted = errors.New("interrupted")
	errIDRequired  = errors.New("session id required")
)
