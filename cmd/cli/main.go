package main

import (
	"os"

	"github.com/amirasaad/multicalc/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
