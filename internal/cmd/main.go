package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/atrium/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	name := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name: name,
	})
	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}
	initCommands(log, ui)

	c := &cli.CLI{
		Name:     name,
		Args:     normalizeArgs(args[1:]),
		Version:  version.Version,
		Commands: Commands,
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running command: %v\n", err)
		return 1
	}
	return exitCode
}

// normalizeArgs maps bare invocations onto subcommands: no arguments runs
// the server, a lone -v/-version flag runs the version command.
func normalizeArgs(args []string) []string {
	switch {
	case len(args) == 0:
		return []string{"serve"}
	case len(args) == 1 && (args[0] == "-v" || args[0] == "-version"):
		return []string{"version"}
	}
	return args
}
