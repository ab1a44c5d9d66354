package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags; it defaults to "dev" for
// local builds, the same convention the teacher's own CLI uses.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the myco toolchain version",
	RunE: func(c *cobra.Command, args []string) error {
		fmt.Fprintf(c.OutOrStdout(), "myco %s\n", Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
