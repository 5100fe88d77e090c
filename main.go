package main

import (
	"os"

	"github.com/edgenotch/cardkeep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
