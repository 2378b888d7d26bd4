package main

import (
	"os"

	"github.com/viament/viament/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
