// Package cmd implements the myco command-line interface with cobra: a
// root command carrying persistent flags and a tree of subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "myco",
	Short: "Myco language toolchain",
	Long: `myco is the toolchain for the Myco scripting language: a small
dynamically-typed language with lexical scoping, modules, and
structured try/catch error handling.

Run a script directly:

  myco run script.myco

or inspect the pipeline stage by stage with "myco lex" and "myco parse".`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostics")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
