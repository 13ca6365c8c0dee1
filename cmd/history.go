package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/consistency"
	"github.com/abhisek/prepcoach/internal/store"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show every recorded answer of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		sess, err := s.Records().GetSession(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		responses, err := s.Records().FetchSessionResponses(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch responses: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("Session %d", sess.ID)))
		fmt.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("%s · %s · %s · %s",
			sess.UserName, orDash(sess.Role), orDash(sess.InterviewType),
			sess.CreatedAt.Local().Format("2006-01-02 15:04"))))

		if len(responses) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("No answers recorded."))
			return nil
		}
		for i, r := range responses {
			renderResponse(out, i+1, r)
		}
		return nil
	},
}

func renderResponse(w io.Writer, n int, r store.ResponseRecord) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat(rule, 60))
	fmt.Fprintf(w, "%s %s\n", theme.Label.Render(fmt.Sprintf("#%d", n)), r.Question)
	fmt.Fprintln(w, theme.Hint.Render(fmt.Sprintf("%s · rules %s", r.Category, r.RulesVersion)))
	if !consistency.IsCurrentRules(r.RulesVersion) {
		fmt.Fprintln(w, theme.Hint.Render("scored under older rules, current rules are "+consistency.RulesVersion))
	}
	fmt.Fprintln(w, theme.Card.Render(r.Answer))
	renderEvaluation(w, r.Evaluation)
}
