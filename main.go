// ABOUTME: Entry point for the soundboard
// ABOUTME: Hands off to the cobra command tree
package main

import (
	"os"

	"github.com/Sendspin/soundboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
