package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective configuration or writes a starter file.
type ConfigCmd struct {
	init bool
}

// SetInit sets the --init flag (for testing).
func (c *ConfigCmd) SetInit(init bool) {
	c.init = init
}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Show or initialize configuration" }
func (c *ConfigCmd) Usage() string     { return "dtask config [--init]" }
func (c *ConfigCmd) NeedsStore() bool  { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.init, "init", false, "")
}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !c.init {
		if err := cfg.WriteTOML(out); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.ConfigError
		}
		return exitcode.Success
	}

	if err := cfg.WriteStarter(); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintf(errOut, "error: %v: %s\n", err, cfg.ConfigPath())
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", cfg.ConfigPath())
	}
	return exitcode.Success
}
