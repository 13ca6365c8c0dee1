package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/store"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded generation service calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation service calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		renderEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("event %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		renderEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage, failure rate and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		renderUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

// outcome is "ok" for a successful call and the failure kind otherwise.
func outcome(e store.LLMRequestRecord) string {
	if e.Success {
		return theme.Good.Render("ok")
	}
	return theme.Poor.Render(orDash(e.ErrorKind))
}

func renderEvents(w io.Writer, events []store.LLMRequestRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No generation calls recorded."))
		return
	}
	t := newTable(column{"ID", 5}, column{"Time", 19}, column{"Purpose", 11}, column{"Model", 26}, column{"Tokens", 11}, column{"Ms", 6}, column{"Result", 10})
	t.header(w)
	for _, e := range events {
		t.row(w,
			strconv.FormatInt(e.ID, 10),
			e.Timestamp.Local().Format(timeLayout),
			orDash(e.Purpose),
			e.Model,
			fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			outcome(e))
	}
}

func renderEvent(w io.Writer, e *store.LLMRequestRecord) {
	fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("Call %d", e.ID)))
	fields := [][2]string{
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Request", orDash(e.RequestID)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", orDash(e.Purpose)},
		{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Result", outcome(*e)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "  %s %s\n", theme.Label.Render(fmt.Sprintf("%-9s", f[0])), f[1])
	}

	for _, body := range [][2]string{{"Prompt", e.RequestBody}, {"Reply", e.ResponseBody}} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Label.Render(body[0]))
		text := strings.TrimSpace(body[1])
		if text == "" {
			fmt.Fprintln(w, theme.Hint.Render("  (not captured)"))
			continue
		}
		fmt.Fprintln(w, theme.Card.Render(text))
	}
}

func renderUsage(w io.Writer, byPurpose []store.LLMUsageStats, byModel []store.LLMModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No generation calls recorded."))
		return
	}

	fmt.Fprintln(w, theme.Title.Render("Usage by purpose"))
	t := newTable(column{"Purpose", 12}, column{"Calls", 6}, column{"Failed", 7}, column{"Input", 10}, column{"Output", 10}, column{"Avg ms", 8})
	t.header(w)
	var total store.LLMUsageStats
	for _, u := range byPurpose {
		t.row(w, orDash(u.Purpose), strconv.Itoa(u.Calls), strconv.Itoa(u.Failures),
			strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
		total.Calls += u.Calls
		total.Failures += u.Failures
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
	}
	t.rule(w)
	t.row(w, "total", strconv.Itoa(total.Calls), strconv.Itoa(total.Failures),
		strconv.Itoa(total.InputTokens), strconv.Itoa(total.OutputTokens), "")
	if total.Failures > 0 {
		// Every failed call was answered by the offline engine.
		fmt.Fprintln(w, theme.Hint.Render(fmt.Sprintf("  %.0f%% of calls fell back to offline results",
			float64(total.Failures)/float64(total.Calls)*100)))
	}

	if len(byModel) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Title.Render("Estimated cost (USD)"))
	t = newTable(column{"Model", 30}, column{"Calls", 6}, column{"Input", 10}, column{"Output", 10}, column{"Cost", 10})
	t.header(w)
	var sum float64
	var unpriced []string
	for _, mu := range byModel {
		cost := "?"
		if p := llm.LookupCost(mu.Model); p != nil {
			c := p.Cost(mu.InputTokens, mu.OutputTokens)
			sum += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		t.row(w, mu.Model, strconv.Itoa(mu.Calls), strconv.Itoa(mu.InputTokens), strconv.Itoa(mu.OutputTokens), cost)
	}
	t.rule(w)
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	t.row(w, label, "", "", "", formatCost(sum))
	if len(unpriced) > 0 {
		fmt.Fprintln(w, theme.Hint.Render("  No pricing for "+strings.Join(unpriced, ", ")))
	}
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls for this purpose (questions, evaluation, tips)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
