package main

import (
	"os"

	"github.com/hashicorp-forge/atrium/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
