package cli

import (
	"context"
	"time"

	"github.com/calvinalkan/argfuzz/internal/config"
	"github.com/calvinalkan/argfuzz/internal/findings"

	flag "github.com/spf13/pflag"
)

// FindingsCmd returns the findings command.
func FindingsCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("findings", flag.ContinueOnError),
		Usage: "findings [id | rm <id>]",
		Short: "List, show or delete stored sessions",
		Long: `Without arguments, list stored sessions newest first.
With an id (or unique id prefix), show that session in full.
With "rm <id>", delete the session.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execFindings(io, cfg, args)
		},
	}
}

func execFindings(io *IO, cfg *config.Config, args []string) error {
	store, err := findings.Open(cfg.FindingsDBAbs)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case len(args) == 0:
		return listFindings(io, store)
	case args[0] == "rm":
		if len(args) < 2 {
			return errIDRequired
		}

		if len(args) > 2 {
			return errTooManyArgs
		}

		full, err := store.Delete(args[1])
		if err != nil {
			return err
		}

		io.Println("deleted " + full)

		return nil
	case len(args) == 1:
		sess, err := store.Get(args[0])
		if err != nil {
			return err
		}

		printSession(io, sess)
		io.Printf("started=%s finished=%s\n", sess.StartedAt.Format(time.RFC3339), sess.FinishedAt.Format(time.RFC3339))

		return nil
	default:
		return errTooManyArgs
	}
}

func listFindings(io *IO, store *findings.Store) error {
	sessions, err := store.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		io.Println("no stored sessions")

		return nil
	}

	for _, s := range sessions {
		io.Printf("%s  %s  ops=%d findings=%d seed=%d\n",
			s.ID, s.StartedAt.Format(time.RFC3339), len(s.Reports), s.FindingCount(), s.Seed)
	}

	return nil
}
