// Package main is the entry point for the strata CLI.
package main

import (
	"os"

	"github.com/thoreinstein/strata/cmd/strata/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
