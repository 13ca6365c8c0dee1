package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/prompt"
)

// Questions returns exactly n questions (n normalized by
// interview.ClampQuestionCount). Short service lists are topped up from the
// offline bank.
func (c *Coach) Questions(ctx context.Context, p prompt.QuestionParams) []interview.Question {
	n := interview.ClampQuestionCount(p.Count)
	p.Count = n

	res, log, err := c.call(ctx, prompt.Questions(p))
	var qs []interview.Question
	if err == nil {
		qs, err = NormalizeQuestions(res.Data)
	}
	if err != nil {
		fellBack(log, err)
		return c.fallback.Questions(p.Role, p.InterviewType, n)
	}

	qs = dedupe(qs)
	if len(qs) > n {
		qs = qs[:n]
	}
	if len(qs) < n {
		log.Info().Int("received", len(qs)).Int("wanted", n).Msg("topping up questions from offline bank")
		qs = topUp(qs, c.fallback.Questions(p.Role, p.InterviewType, n), n)
	}
	if len(qs) < n {
		// The bank holds MaxQuestionCount distinct questions for any role,
		// so this pass always fills the list.
		qs = topUp(qs, c.fallback.Questions(p.Role, p.InterviewType, interview.MaxQuestionCount), n)
	}
	for i := range qs {
		qs[i].ID = i + 1
	}
	log.Debug().Str("source", "service").Int("count", len(qs)).Msg("generated questions")
	return qs
}

func questionKey(q interview.Question) string {
	return strings.ToLower(strings.TrimSpace(q.Text))
}

func dedupe(qs []interview.Question) []interview.Question {
	seen := make(map[string]bool, len(qs))
	out := qs[:0]
	for _, q := range qs {
		k := questionKey(q)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, q)
	}
	return out
}

func topUp(qs, extra []interview.Question, n int) []interview.Question {
	seen := make(map[string]bool, n)
	for _, q := range qs {
		seen[questionKey(q)] = true
	}
	for _, q := range extra {
		if len(qs) == n {
			break
		}
		k := questionKey(q)
		if seen[k] {
			continue
		}
		seen[k] = true
		qs = append(qs, q)
	}
	return qs
}

// questionItem is one element of a service question list. It accepts a
// bare string or an object.
type questionItem struct {
	text       string
	category   string
	difficulty string
}

func (q *questionItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		q.text = s
		return nil
	}
	var obj struct {
		Question   string `json:"question"`
		Text       string `json:"text"`
		Category   string `json:"category"`
		Type       string `json:"type"`
		Difficulty string `json:"difficulty"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("question item: %w", err)
	}
	q.text = obj.Question
	if q.text == "" {
		q.text = obj.Text
	}
	q.category = obj.Category
	if q.category == "" {
		q.category = obj.Type
	}
	q.difficulty = obj.Difficulty
	return nil
}

// NormalizeQuestions converts any question list shape the service produces
// into Questions: an array of strings, an array of objects keyed by
// "question" or "text", or either of those wrapped as {"questions": [...]}.
// Blank entries are dropped. Difficulty defaults to medium and category to
// general.
func NormalizeQuestions(data json.RawMessage) ([]interview.Question, error) {
	var items []questionItem
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped struct {
			Questions []questionItem `json:"questions"`
		}
		if werr := json.Unmarshal(data, &wrapped); werr != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
		items = wrapped.Questions
	}

	var out []interview.Question
	for _, it := range items {
		text := strings.TrimSpace(it.text)
		if text == "" {
			continue
		}
		out = append(out, interview.Question{
			Category:   interview.ParseCategory(it.category),
			Difficulty: interview.ParseDifficulty(it.difficulty),
			Text:       text,
		})
	}
	if len(out) == 0 {
		return nil, errors.New("decode questions: no usable questions")
	}
	return out, nil
}
