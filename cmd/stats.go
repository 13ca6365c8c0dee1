package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/badges"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, s, err := services(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := svc.UserStats(cmd.Context(), user)
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		renderUserStats(cmd.OutOrStdout(), st)
		return nil
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List earned and remaining badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}

		svc, s, err := services(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := svc.Achievements(cmd.Context(), user)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		earned := make(map[badges.BadgeID]bool, len(recs))
		fmt.Fprintln(out, theme.Title.Render("Badges for "+user))
		for _, r := range recs {
			id := badges.BadgeID(r.BadgeID)
			earned[id] = true
			fmt.Fprintf(out, "  %s %-22s %s\n", id.Icon(), theme.Badge.Render(id.DisplayName()),
				theme.Hint.Render(r.EarnedAt.Local().Format("2006-01-02")))
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("  None yet."))
		}

		var locked []string
		for _, id := range badges.All() {
			if !earned[id] {
				locked = append(locked, fmt.Sprintf("  %s: %s", id.DisplayName(), id.Description()))
			}
		}
		if len(locked) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, theme.Label.Render("Still to earn"))
			fmt.Fprintln(out, theme.Subtitle.Render(strings.Join(locked, "\n")))
		}
		return nil
	},
}

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Get personalized improvement tips",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		role, _ := cmd.Flags().GetString("role")

		svc, s, err := services(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		tips, err := svc.Tips(cmd.Context(), user, role)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render("Tips for "+user))
		renderList(out, "Focus areas", tips.FocusAreas)
		renderList(out, "Tips", tips.Tips)
		if tips.MotivationalMessage != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, theme.Good.Render(tips.MotivationalMessage))
		}
		return nil
	},
}

func userFlag(cmd *cobra.Command) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	user = strings.TrimSpace(user)
	if user == "" {
		return "", fmt.Errorf("a user name is required (--user)")
	}
	return user, nil
}

func addUserFlag(c *cobra.Command) {
	c.Flags().StringP("user", "u", "", "User name")
}

func init() {
	addUserFlag(statsCmd)
	statsCmd.Flags().Bool("json", false, "Print stats as JSON")
	addUserFlag(badgesCmd)
	addUserFlag(tipsCmd)
	tipsCmd.Flags().StringP("role", "r", "", "Target role for the tips")
}
