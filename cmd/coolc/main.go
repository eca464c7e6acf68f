// Command coolc compiles COOL source files to RISC assembly.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/coolc/cmd/coolc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
