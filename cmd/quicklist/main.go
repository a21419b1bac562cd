package main

import (
	"os"

	"github.com/quicklist/quicklist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
