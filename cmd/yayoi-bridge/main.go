// Package main is the entry point for the yayoi-bridge CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/yayoi-bridge/cmd/yayoi-bridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
