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

// ConfirmPhrase must be typed exactly to delete an account.
const ConfirmPhrase = "DELETE"

func init() {
	Register(&UnregisterCmd{})
}

// UnregisterCmd deletes the logged-in account. The confirmation phrase
// is checked locally; nothing is sent until it matches.
type UnregisterCmd struct {
	confirm string
}

// SetConfirmation sets the confirmation phrase (for testing).
func (c *UnregisterCmd) SetConfirmation(phrase string) {
	c.confirm = phrase
}

func (c *UnregisterCmd) Name() string      { return "unregister" }
func (c *UnregisterCmd) Aliases() []string { return nil }
func (c *UnregisterCmd) Synopsis() string  { return "Delete the logged-in account" }
func (c *UnregisterCmd) Usage() string     { return "tdl unregister [--confirm DELETE]" }
func (c *UnregisterCmd) NeedsAuth() bool   { return true }

func (c *UnregisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *UnregisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var err error
	if c.confirm == "" {
		prompt := fmt.Sprintf("this permanently deletes your account and tasks; type %s to continue: ", ConfirmPhrase)
		if c.confirm, err = promptLine(errOut, prompt); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if c.confirm != ConfirmPhrase {
		fmt.Fprintln(errOut, "error: confirmation does not match, account not deleted")
		return exitcode.UserError
	}

	userID, ok := svc.UserID()
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: tdl login)")
		return exitcode.AuthError
	}

	if err := svc.DeleteUser(ctx, userID); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "account deleted")
	}
	return exitcode.Success
}
