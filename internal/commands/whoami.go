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
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the authenticated user's profile.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the logged-in account" }
func (c *WhoamiCmd) Usage() string     { return "tdl whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	userID, ok := svc.UserID()
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: tdl login)")
		return exitcode.AuthError
	}

	user, err := svc.GetUser(ctx, userID)
	if err != nil {
		return reportError(errOut, err)
	}

	output.FormatUser(out, user)
	return exitcode.Success
}
