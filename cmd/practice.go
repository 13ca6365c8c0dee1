package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

const (
	cmdSkip = "/skip"
	cmdQuit = "/quit"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive mock interview",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := practiceParams(cmd)
		if err != nil {
			return err
		}

		svc, s, err := services(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		return runPractice(cmd.Context(), svc, p, os.Stdin, cmd.OutOrStdout())
	},
}

func addPracticeFlags(c *cobra.Command) {
	c.Flags().StringP("user", "u", os.Getenv("USER"), "Your name")
	c.Flags().StringP("role", "r", "", "Target role, e.g. \"Software Engineer\"")
	c.Flags().StringP("seniority", "s", "", "Seniority, e.g. junior, senior")
	c.Flags().StringP("type", "t", "", "Interview type: behavioral, technical, situational")
	c.Flags().IntP("count", "n", 0, "Number of questions (default from config)")
}

func practiceParams(cmd *cobra.Command) (session.Params, error) {
	user, _ := cmd.Flags().GetString("user")
	role, _ := cmd.Flags().GetString("role")
	seniority, _ := cmd.Flags().GetString("seniority")
	kind, _ := cmd.Flags().GetString("type")
	count, _ := cmd.Flags().GetInt("count")
	if count <= 0 {
		count = cfg.Interview.Questions
	}
	if strings.TrimSpace(user) == "" {
		return session.Params{}, errors.New("a user name is required (--user)")
	}
	return session.Params{
		UserName:      user,
		Role:          role,
		Seniority:     seniority,
		InterviewType: kind,
		Count:         count,
	}, nil
}

// runPractice asks every question in order. An answer is one or more lines
// ended by a blank line; /skip moves on and /quit finishes early.
func runPractice(ctx context.Context, svc *session.Service, p session.Params, in io.Reader, out io.Writer) error {
	st, err := svc.Start(ctx, p)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	fmt.Fprintln(out, theme.Title.Render("Mock interview"))
	fmt.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("%s · %d questions", orDash(p.Role), st.Total())))
	fmt.Fprintln(out, theme.Hint.Render("End an answer with an empty line. Type /skip or /quit on its own line."))

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

questions:
	for i, q := range st.Session.Questions {
		renderQuestion(out, q, i+1, st.Total())

		answer, command, eof := readAnswer(sc, out)
		switch {
		case command == cmdQuit:
			break questions
		case command == cmdSkip:
			continue
		case answer == "" && eof:
			break questions
		}

		res, err := svc.Submit(ctx, st, q.ID, answer)
		if err != nil {
			return fmt.Errorf("submit answer: %w", err)
		}
		renderEvaluation(out, res.Evaluation)
		if eof {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read answer: %w", err)
	}

	sum, err := svc.Finish(ctx, st)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	renderSummary(out, sum)
	return nil
}

// readAnswer collects lines until a blank line, a command or end of input.
func readAnswer(sc *bufio.Scanner, out io.Writer) (answer, command string, eof bool) {
	var lines []string
	fmt.Fprint(out, "> ")
	for {
		if !sc.Scan() {
			return strings.Join(lines, "\n"), "", true
		}
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if len(lines) == 0 && (trimmed == cmdSkip || trimmed == cmdQuit) {
			return "", trimmed, false
		}
		if trimmed == "" {
			if len(lines) == 0 {
				fmt.Fprint(out, "> ")
				continue
			}
			return strings.Join(lines, "\n"), "", false
		}
		lines = append(lines, line)
		fmt.Fprint(out, "  ")
	}
}

func init() {
	addPracticeFlags(practiceCmd)
}
