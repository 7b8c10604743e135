// Package main is the entry point for the homesense CLI.
package main

import (
	"os"

	"github.com/Harshitk-cp/homesense/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
