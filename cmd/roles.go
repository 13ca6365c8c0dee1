package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/fallback"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List roles with curated offline questions",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render("Curated roles"))
		for _, r := range fallback.New().Roles() {
			fmt.Fprintf(out, "  • %s\n", r)
		}
		fmt.Fprintln(out, theme.Hint.Render("Other roles get generic questions."))
	},
}
