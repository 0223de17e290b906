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
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command. Only regular user
// accounts can be created from the client.
type RegisterCmd struct {
	username string
	email    string
	password string
	confirm  string
}

// SetForm sets all fields (for testing).
func (c *RegisterCmd) SetForm(username, email, password, confirm string) {
	c.username = username
	c.email = email
	c.password = password
	c.confirm = confirm
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create a new account" }
func (c *RegisterCmd) Usage() string {
	return "tdl register [--username <name>] [--email <addr>] [common flags]"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var err error
	if c.username == "" {
		if c.username, err = promptLine(errOut, "username: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if c.email == "" {
		if c.email, err = promptLine(errOut, "email: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if c.password == "" {
		if c.password, err = promptPassword(errOut, "password: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if c.confirm == "" {
		if c.confirm, err = promptPassword(errOut, "confirm password: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	// Local validation, checked before any request goes out.
	if c.username == "" || c.email == "" || c.password == "" {
		fmt.Fprintln(errOut, "error: username, email and password are required")
		return exitcode.UserError
	}
	if c.password != c.confirm {
		fmt.Fprintln(errOut, "error: passwords do not match")
		return exitcode.UserError
	}

	if err := svc.Register(ctx, c.username, c.email, c.password); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "account created, log in with: tdl login -u %s\n", c.username)
	}
	return exitcode.Success
}
