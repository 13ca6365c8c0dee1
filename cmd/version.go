package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/consistency"
	"github.com/abhisek/prepcoach/internal/store"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "prepcoach", version)
		fmt.Fprintln(out, "  scoring rules", consistency.RulesVersion)
		fmt.Fprintln(out, "  schema       ", store.SchemaVersion())
	},
}
