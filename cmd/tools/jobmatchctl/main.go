package main

import (
	"os"

	"jobmatch-workers/cmd/tools/jobmatchctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
