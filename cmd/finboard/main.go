package main

import (
	"fmt"
	"os"

	"github.com/rshade/finboard/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Build-time injected.
var version = "dev"

func run() error {
	root := cli.NewRootCmd(version)
	return root.Execute()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
