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
	Register(&PasswdCmd{})
}

// PasswdCmd changes the logged-in account's password.
type PasswdCmd struct {
	password string
	confirm  string
}

// SetPasswords sets the new password and confirmation (for testing).
func (c *PasswdCmd) SetPasswords(password, confirm string) {
	c.password = password
	c.confirm = confirm
}

func (c *PasswdCmd) Name() string      { return "passwd" }
func (c *PasswdCmd) Aliases() []string { return nil }
func (c *PasswdCmd) Synopsis() string  { return "Change password" }
func (c *PasswdCmd) Usage() string     { return "tdl passwd" }
func (c *PasswdCmd) NeedsAuth() bool   { return true }

func (c *PasswdCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *PasswdCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var err error
	if c.password == "" {
		if c.password, err = promptPassword(errOut, "new password: "); err != nil {
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

	if c.password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}
	if c.password != c.confirm {
		fmt.Fprintln(errOut, "error: passwords do not match")
		return exitcode.UserError
	}

	userID, ok := svc.UserID()
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: tdl login)")
		return exitcode.AuthError
	}

	if _, err := svc.UpdateUser(ctx, userID, service.UserPatch{Password: &c.password}); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "password changed")
	}
	return exitcode.Success
}
