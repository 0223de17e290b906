package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"tdl/internal/config"
	"tdl/internal/editsession"
	"tdl/internal/exitcode"
	"tdl/internal/output"
	"tdl/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. It drives one edit session:
// start from the task's current fields, apply the provided flags to
// the draft, then save.
type EditCmd struct {
	title       string
	description string
	dueDate     string
	done        string // "", "true" or "false"
}

// SetFields sets the edit flags (for testing).
func (c *EditCmd) SetFields(title, description, dueDate, done string) {
	c.title = title
	c.description = description
	c.dueDate = dueDate
	c.done = done
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "tdl edit [--title <t>] [--desc <text>] [--due \"DD-MM-YYYY HH:MM\"] [--done true|false] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.dueDate, "due", "", "")
	fs.StringVar(&c.done, "done", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.title == "" && c.description == "" && c.dueDate == "" && c.done == "" {
		fmt.Fprintln(errOut, "error: nothing to edit")
		return exitcode.UserError
	}

	if c.dueDate != "" {
		if _, err := time.Parse(DueDateLayout, c.dueDate); err != nil {
			fmt.Fprintf(errOut, "error: invalid due date %q (expected DD-MM-YYYY HH:MM)\n", c.dueDate)
			return exitcode.UserError
		}
	}
	var done bool
	if c.done != "" {
		done, err = strconv.ParseBool(c.done)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid done value: %s\n", c.done)
			return exitcode.UserError
		}
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	var task *service.Task
	for i := range tasks {
		if tasks[i].ID == id {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}

	edit := editsession.New(svc)
	edit.Start(*task)
	if c.title != "" {
		edit.SetTitle(c.title)
	}
	if c.description != "" {
		edit.SetDescription(c.description)
	}
	if c.dueDate != "" {
		edit.SetDueDate(c.dueDate)
	}
	if c.done != "" {
		edit.SetDone(done)
	}

	updated, err := edit.Save(ctx)
	if err != nil {
		// The draft is still open at this point; in a one-shot CLI run
		// there is nothing more to do with it than report the failure.
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatTaskDetail(out, updated)
	}
	return exitcode.Success
}
