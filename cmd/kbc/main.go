// Command kbc runs a team trivia game in the terminal.
package main

import (
	"os"

	"github.com/shubham-0921/kbc-ai/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
