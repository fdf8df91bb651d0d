// Package main is the entry point for the semlens CLI binary.
package main

import (
	"os"

	"semlens/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
