package main

import (
	"os"

	"github.com/glarusbooks/bankrec/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
