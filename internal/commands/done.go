package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tdl/internal/config"
	"tdl/internal/exitcode"
	"tdl/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles, so running it on a
// completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
// "undone" is the same toggle; the server has a single done flag.
func (c *DoneCmd) Aliases() []string { return []string{"toggle", "undone"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's done flag" }
func (c *DoneCmd) Usage() string     { return "tdl done <id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// Populate the cache so the toggle has something to flip.
	if _, err := svc.ListTasks(ctx); err != nil {
		return reportError(errOut, err)
	}

	if err := svc.ToggleTask(ctx, id); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
