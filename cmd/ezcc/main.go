// Command ezcc is the ahead-of-time compiler's command-line entry point.
package main

import (
	"fmt"
	"os"

	"github.com/ezc-lang/ezcc/cmd/ezcc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
