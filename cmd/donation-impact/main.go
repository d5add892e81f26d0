package main

import (
	"os"

	"github.com/iwvelando/donation-impact/cmd/donation-impact/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
