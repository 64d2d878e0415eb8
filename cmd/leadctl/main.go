package main

import (
	"os"

	"github.com/tekhekspert/lead-capture/cmd/leadctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
