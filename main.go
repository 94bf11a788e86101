package main

import (
	"os"

	"github.com/brandscale/pagesmith/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
