// Command myco is the CLI entry point for the Myco language toolchain.
package main

import (
	"fmt"
	"os"

	"github.com/mycolang/myco/cmd/myco/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
