package version

import (
	"github.com/hashicorp-forge/atrium/internal/cmd/base"
	"github.com/hashicorp-forge/atrium/internal/version"
)

type Command struct {
	*base.Command
}

func NewCommand(b *base.Command) *Command {
	return &Command{Command: b}
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: atrium version\n"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
