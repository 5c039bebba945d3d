package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/argfuzz/internal/config"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execPrintConfig(io, cfg)
		},
	}
}

func execPrintConfig(io *IO, cfg *config.Config) error {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Printf("iterations=%d\n", cfg.Iterations)

	if cfg.Seed != 0 {
		io.Printf("seed=%d\n", cfg.Seed)
	} else {
		io.Println("seed=random")
	}

	if len(cfg.Operations) > 0 {
		io.Println("operations=" + strings.Join(cfg.Operations, ","))
	} else {
		io.Println("operations=all")
	}

	io.Println("findings_db=" + cfg.FindingsDBAbs)

	if cfg.Chaos.Enabled() {
		io.Printf("chaos.create_fail_rate=%g\n", cfg.Chaos.CreateFailRate)
		io.Printf("chaos.delete_fail_rate=%g\n", cfg.Chaos.DeleteFailRate)
		io.Printf("chaos.call_fail_rate=%g\n", cfg.Chaos.CallFailRate)
		io.Printf("chaos.panic_rate=%g\n", cfg.Chaos.PanicRate)
	} else {
		io.Println("chaos=off")
	}

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}

	return nil
}
