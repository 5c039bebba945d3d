package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/argfuzz/pkg/argen"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <op>",
		Short: "Show an operation's generator callbacks",
		Long:  "Display whether an operation can be fuzzed and which callbacks its descriptor defines.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execShow(io, argen.Default(), args)
		},
	}
}

func execShow(io *IO, reg *argen.Registry, args []string) error {
	if len(args) == 0 {
		return errOpRequired
	}

	if len(args) > 1 {
		return errTooManyArgs
	}

	id := args[0]

	d, ok := reg.Lookup(id)
	if !ok {
		io.Printf("%s: unavailable (%s)\n", id, reg.Status(id))

		return nil
	}

	io.Println("op=" + id)
	io.Println("status=" + argen.Available.String())
	io.Println("callbacks=" + strings.Join(d.Callbacks(), ","))

	return nil
}
