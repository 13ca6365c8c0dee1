package fallback

import (
	"strings"

	"github.com/abhisek/prepcoach/internal/interview"
)

// Questions returns exactly n questions for the role (n is normalized with
// interview.ClampQuestionCount). Difficulties are spread evenly and ordered
// easy, medium, hard. Curated questions for the role come first, then
// role-templated generic ones. No question repeats.
func (s *Synthesizer) Questions(role, interviewType string, n int) []interview.Question {
	n = interview.ClampQuestionCount(n)
	role = strings.TrimSpace(role)

	counts := spread(n)
	out := make([]interview.Question, 0, n)
	for i, d := range interview.AllDifficulties() {
		out = append(out, s.pick(role, interviewType, d, counts[i])...)
	}
	for i := range out {
		out[i].ID = i + 1
	}
	return out
}

// spread splits n across the three difficulties; counts differ by at most
// one and extra questions go to the easier levels.
func spread(n int) [3]int {
	base, rem := n/3, n%3
	var counts [3]int
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}
	return counts
}

func (s *Synthesizer) pick(role, interviewType string, d interview.Difficulty, count int) []interview.Question {
	if count == 0 {
		return nil
	}

	generic := s.bank.generic(d, role, interviewType)
	seen := make(map[string]bool)
	var out []interview.Question
	for _, layer := range [][]interview.Question{s.bank.curated(role, d, interviewType), generic} {
		for _, q := range layer {
			if len(out) == count {
				return out
			}
			if seen[q.Text] {
				continue
			}
			seen[q.Text] = true
			out = append(out, q)
		}
	}
	return out
}
