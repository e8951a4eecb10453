package main

import (
	"os"

	"github.com/leadflow/leadflow/cmd/leadflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
