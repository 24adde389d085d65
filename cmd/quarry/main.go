// Package main provides the Quarry database workbench CLI.
package main

import (
	"os"

	"github.com/quarry-labs/quarry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
