// Package main is the entry point for sbwatch.
package main

import (
	"os"

	"github.com/donaldgifford/sb-price-watch/cmd/sbwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
