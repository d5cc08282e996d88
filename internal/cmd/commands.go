package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/atrium/internal/cmd/base"
	"github.com/hashicorp-forge/atrium/internal/cmd/commands/serve"
	versioncmd "github.com/hashicorp-forge/atrium/internal/cmd/commands/version"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"serve": func() (cli.Command, error) {
			return serve.NewCommand(b), nil
		},
		"version": func() (cli.Command, error) {
			return versioncmd.NewCommand(b), nil
		},
	}
}
