package main

import (
	"os"

	"github.com/AidanDelaney/zipbuild/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
