package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tdl/internal/config"
	"tdl/internal/exitcode"
	"tdl/internal/output"
	"tdl/internal/service"
)

func init() {
	Register(&ProfileCmd{})
}

// ProfileCmd updates the logged-in account's username or email.
type ProfileCmd struct {
	username string
	email    string
}

// SetFields sets the update flags (for testing).
func (c *ProfileCmd) SetFields(username, email string) {
	c.username = username
	c.email = email
}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return nil }
func (c *ProfileCmd) Synopsis() string  { return "Update account details" }
func (c *ProfileCmd) Usage() string     { return "tdl profile [--username <name>] [--email <addr>]" }
func (c *ProfileCmd) NeedsAuth() bool   { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.email, "email", "", "")
}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.username == "" && c.email == "" {
		fmt.Fprintln(errOut, "error: nothing to update")
		return exitcode.UserError
	}

	userID, ok := svc.UserID()
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: tdl login)")
		return exitcode.AuthError
	}

	var patch service.UserPatch
	if c.username != "" {
		patch.Username = &c.username
	}
	if c.email != "" {
		patch.Email = &c.email
	}

	user, err := svc.UpdateUser(ctx, userID, patch)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatUser(out, user)
	}
	return exitcode.Success
}
