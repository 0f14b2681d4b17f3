// Command qunitlint lints QUnit test files for asynchronous obligations
// and deprecated assertion usage.
package main

import (
	"fmt"
	"os"

	"github.com/wharflab/qunitlint/cmd/qunitlint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
