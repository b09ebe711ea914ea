package main

import (
	"os"

	"github.com/negotiapro/copilot/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
