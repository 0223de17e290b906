package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"tdl/internal/config"
	"tdl/internal/exitcode"
	"tdl/internal/service"
)

// DueDateLayout is the due date input format the server accepts.
const DueDateLayout = "02-01-2006 15:04"

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	dueDate     string
}

// SetFields sets the optional fields (for testing).
func (c *AddCmd) SetFields(description, dueDate string) {
	c.description = description
	c.dueDate = dueDate
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tdl add [--desc <text>] [--due \"DD-MM-YYYY HH:MM\"] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.dueDate, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Check for title
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	// Join args to form title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	// Validate the due date locally; a malformed one would bounce with
	// a 400 anyway.
	if c.dueDate != "" {
		if _, err := time.Parse(DueDateLayout, c.dueDate); err != nil {
			fmt.Fprintf(errOut, "error: invalid due date %q (expected DD-MM-YYYY HH:MM)\n", c.dueDate)
			return exitcode.UserError
		}
	}

	task, err := svc.CreateTask(ctx, service.TaskDraft{
		Title:       title,
		Description: c.description,
		DueDate:     c.dueDate,
		Done:        false,
	})
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created task %d\n", task.ID)
	}
	return exitcode.Success
}
