package main

import (
	"os"

	"github.com/GoPolymarket/liqwatch/internal/cmd"
)

// Version information set via ldflags during build
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
