// Package main is the entry point for device-grader.
package main

import (
	"os"

	"github.com/donaldgifford/device-grader/cmd/device-grader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
