package cli

import (
	"context"

	"github.com/calvinalkan/argfuzz/pkg/argen"

	flag "github.com/spf13/pflag"
)

// ListCmd returns the list command.
func ListCmd() *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.Bool("all", false, "Also list operations without a generator")

	return &Command{
		Flags: fs,
		Usage: "list [--all]",
		Short: "List fuzzable operations",
		Long:  "List operations that have an argument generator, sorted by name.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			if len(args) > 0 {
				return errTooManyArgs
			}

			all, _ := fs.GetBool("all")

			return execList(io, argen.Default(), all)
		},
	}
}

func execList(io *IO, reg *argen.Registry, all bool) error {
	for _, id := range reg.Names() {
		io.Println(id)
	}

	if !all {
		return nil
	}

	for _, id := range reg.Unimplemented() {
		io.Printf("%s (%s)\n", id, argen.Unimplemented)
	}

	return nil
}
