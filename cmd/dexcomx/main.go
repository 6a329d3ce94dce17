package main

import (
	"os"

	"github.com/msto63/dexcomx/cmd/dexcomx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
