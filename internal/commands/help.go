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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tdl help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tdl                                               List open tasks
  tdl list [common flags] [--all]                   List tasks (--all includes completed)
  tdl add [common flags] [--desc <text>] [--due "DD-MM-YYYY HH:MM"] <title...>
  tdl done [common flags] <id>                      Toggle a task's done flag
  tdl edit [common flags] [--title <t>] [--desc <text>] [--due "DD-MM-YYYY HH:MM"] [--done true|false] <id>
  tdl rm [common flags] <id>
  tdl login [common flags] [--username <name>]
  tdl logout [common flags]
  tdl register [common flags] [--username <name>] [--email <addr>]
  tdl whoami [common flags]
  tdl profile [common flags] [--username <name>] [--email <addr>]
  tdl passwd [common flags]
  tdl unregister [common flags] [--confirm DELETE]
  tdl help
  tdl version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
