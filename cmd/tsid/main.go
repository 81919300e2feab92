package main

import (
	"os"

	"github.com/teslasoft/id-agent/cmd/cli"
)

func main() {
	if err := cli.GetCommandOptions().Execute(); err != nil {
		os.Exit(1)
	}
}
