// Package base carries the state shared by all CLI commands.
package base

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by every subcommand.
type Command struct {
	// Log is the root logger; subcommands derive named loggers from it.
	Log hclog.Logger

	// UI is used for command output.
	UI cli.Ui
}

// NewCommand creates a base command.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
	}
}
