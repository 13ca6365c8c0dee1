package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/prepcoach/internal/badges"
	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/stats"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

const rule = "─"

func renderQuestion(w io.Writer, q interview.Question, pos, total int) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n",
		theme.Label.Render(fmt.Sprintf("Question %d/%d", pos, total)),
		theme.Progress(pos-1, total, 20))
	fmt.Fprintln(w, theme.Hint.Render(fmt.Sprintf("%s · %s", q.Category, q.Difficulty)))
	fmt.Fprintln(w, theme.Card.Render(theme.Body.Render(q.Text)))
}

func renderScores(w io.Writer, a stats.Averages) {
	fmt.Fprintf(w, "  Clarity %s   Confidence %s   Content %s   Overall %s\n",
		theme.Score(a.Clarity), theme.Score(a.Confidence), theme.Score(a.Content), theme.Score(a.Overall))
}

func renderList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, theme.Label.Render(title))
	for _, it := range items {
		fmt.Fprintf(w, "  • %s\n", it)
	}
}

func renderEvaluation(w io.Writer, ev interview.Evaluation) {
	fmt.Fprintln(w)
	renderScores(w, stats.Averages{
		Clarity:    ev.ClarityScore,
		Confidence: ev.ConfidenceScore,
		Content:    ev.ContentScore,
		Overall:    ev.OverallScore,
	})
	if ev.Source == interview.SourceFallback {
		fmt.Fprintln(w, theme.Hint.Render("  (offline evaluation)"))
	}
	renderList(w, "Strengths", ev.Strengths)
	renderList(w, "To improve", ev.Weaknesses)
	renderList(w, "Tips", ev.Tips)
	if len(ev.SoftSkills) > 0 {
		fmt.Fprintf(w, "%s %s\n", theme.Label.Render("Soft skills"), strings.Join(ev.SoftSkills, ", "))
	}
	if ev.DetailedFeedback != "" {
		fmt.Fprintln(w, theme.Label.Render("Feedback"))
		fmt.Fprintf(w, "  %s\n", ev.DetailedFeedback)
	}
	fmt.Fprintln(w, theme.Label.Render("A stronger answer"))
	fmt.Fprintln(w, theme.Card.Render(ev.ImprovedAnswer))
}

func renderBadges(w io.Writer, ids []badges.BadgeID) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintln(w, theme.Label.Render("New badges"))
	for _, id := range ids {
		fmt.Fprintf(w, "  %s %s  %s\n", id.Icon(), theme.Badge.Render(id.DisplayName()), theme.Hint.Render(id.Description()))
	}
}

func renderSummary(w io.Writer, sum *session.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Title.Render("Session complete"))
	fmt.Fprintf(w, "  %d of %d questions answered in %s\n",
		sum.Answered, sum.Total, sum.Duration.Round(time.Second))
	if sum.Evaluations > 0 {
		renderScores(w, sum.Averages)
		fmt.Fprintf(w, "  Best overall %s\n", theme.Score(sum.BestOverall))
	}
	renderBadges(w, sum.NewBadges)
}

func renderUserStats(w io.Writer, st stats.UserStats) {
	fmt.Fprintln(w, theme.Title.Render("Progress for "+st.UserName))
	if st.TotalQuestions == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No answers recorded yet."))
		return
	}
	fmt.Fprintf(w, "  Sessions %d   Questions %d   Best overall %s\n",
		st.TotalSessions, st.TotalQuestions, theme.Score(st.BestOverall))
	renderScores(w, st.Averages)
	if st.FallbackShare > 0 {
		fmt.Fprintln(w, theme.Hint.Render(fmt.Sprintf("  %.0f%% of answers were evaluated offline", st.FallbackShare*100)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Label.Render("Recent sessions"))
	t := newTable(column{"ID", 5}, column{"Date", 16}, column{"Role", 20}, column{"Type", 12}, column{"Qs", 4}, column{"Overall", 7})
	t.header(w)
	for _, s := range st.Recent {
		t.row(w,
			strconv.FormatInt(s.SessionID, 10),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			orDash(s.Role),
			orDash(s.InterviewType),
			strconv.Itoa(s.Questions),
			theme.Score(s.Averages.Overall))
	}
}

// table writes fixed-width columns. Cells are cut to the column width
// except in the last column, which may hold styled text.
type table struct {
	names  []string
	widths []int
}

type column struct {
	name  string
	width int
}

func newTable(cols ...column) table {
	var t table
	for _, c := range cols {
		t.names = append(t.names, c.name)
		t.widths = append(t.widths, c.width)
	}
	return t
}

func (t table) header(w io.Writer) {
	t.row(w, t.names...)
	t.rule(w)
}

func (t table) rule(w io.Writer) {
	n := 0
	for _, width := range t.widths {
		n += width + 2
	}
	fmt.Fprintln(w, strings.Repeat(rule, n-2))
}

func (t table) row(w io.Writer, cells ...string) {
	var b strings.Builder
	for i, c := range cells {
		if i == len(t.widths) {
			break
		}
		if i > 0 {
			b.WriteString("  ")
		}
		if i == len(t.widths)-1 {
			b.WriteString(c)
			continue
		}
		fmt.Fprintf(&b, "%-*s", t.widths[i], truncate(c, t.widths[i]))
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
