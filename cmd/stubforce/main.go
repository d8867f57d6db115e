// Package main is the stubforce CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/stubforce/stubforce/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
