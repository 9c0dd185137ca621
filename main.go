package main

import (
	"os"

	"github.com/ytget/ptd-launcher/internal/cli"
)

// The module root builds the desktop launcher; without arguments it opens
// the window, and every ptd-launcher subcommand is available as well.
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
