package main

import (
	"os"

	"github.com/zero-coolio/ofc/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
