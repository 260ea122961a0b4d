// Package main provides the repertoire CLI for counting move paths and
// finding the opening lines that score best for White in a game corpus.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
