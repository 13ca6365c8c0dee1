package coach

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/consistency"
	"github.com/abhisek/prepcoach/internal/fallback"
	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/prompt"
	"github.com/abhisek/prepcoach/internal/stats"
)

const (
	question        = "Tell me about a project you are proud of."
	dashboardAnswer = "I built a dashboard that reduced reporting time by 40% using automated pipelines."
)

func newCoach(responses ...llm.MockResponse) (*Coach, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return New(mock, nil, zerolog.Nop()), mock
}

func TestQuestionsFromService(t *testing.T) {
	c, mock := newCoach(llm.MockResponse{Text: "Here you go:\n```json\n" +
		`[{"question":"Q1?","category":"technical","difficulty":"hard"},{"question":"Q2?"},{"text":"Q3?"}]` +
		"\n```"})

	qs := c.Questions(context.Background(), prompt.QuestionParams{Role: "Software Engineer", Count: 3})
	require.Len(t, qs, 3)
	assert.Equal(t, interview.Question{ID: 1, Category: interview.CategoryTechnical, Difficulty: interview.DifficultyHard, Text: "Q1?"}, qs[0])
	assert.Equal(t, interview.Question{ID: 2, Category: interview.CategoryGeneral, Difficulty: interview.DifficultyMedium, Text: "Q2?"}, qs[1])
	assert.Equal(t, "Q3?", qs[2].Text)

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, prompt.QuestionsSchema, mock.Calls[0].Schema)
}

func TestQuestionsWrappedStrings(t *testing.T) {
	c, _ := newCoach(llm.MockResponse{Text: `{"questions": ["A?", "  ", "B?"]}`})
	qs := c.Questions(context.Background(), prompt.QuestionParams{Count: 2})
	require.Len(t, qs, 2)
	assert.Equal(t, "A?", qs[0].Text)
	assert.Equal(t, "B?", qs[1].Text)
}

func TestQuestionsCount(t *testing.T) {
	c, _ := newCoach(
		llm.MockResponse{Text: `["Only one?"]`},
		llm.MockResponse{Text: `["A?","B?","C?"]`},
	)

	qs := c.Questions(context.Background(), prompt.QuestionParams{Role: "Data Analyst", Count: 4})
	require.Len(t, qs, 4)
	assert.Equal(t, "Only one?", qs[0].Text)
	for i, q := range qs {
		assert.Equal(t, i+1, q.ID)
	}

	qs = c.Questions(context.Background(), prompt.QuestionParams{Count: 2})
	assert.Len(t, qs, 2)
}

func TestQuestionsTopUpNeverRepeats(t *testing.T) {
	c, _ := newCoach(
		llm.MockResponse{Text: `["Tell me about your experience as a Foo Engineer."]`},
		llm.MockResponse{Text: `["Why Foo?", "why foo? ", "Why Foo?"]`},
	)

	for _, count := range []int{interview.MaxQuestionCount, 3} {
		qs := c.Questions(context.Background(), prompt.QuestionParams{Role: "Foo Engineer", Count: count})
		require.Len(t, qs, count)
		seen := map[string]bool{}
		for i, q := range qs {
			assert.Equal(t, i+1, q.ID)
			key := strings.ToLower(strings.TrimSpace(q.Text))
			assert.False(t, seen[key], "repeated %q", q.Text)
			seen[key] = true
		}
	}
}

func TestQuestionsFallback(t *testing.T) {
	want := fallback.New().Questions("Designer", "behavioral", 5)
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"auth error", llm.MockResponse{Err: &llm.ServiceError{Kind: llm.KindAuth}}},
		{"empty text", llm.MockResponse{Text: "   "}},
		{"prose", llm.MockResponse{Text: "I cannot help with that."}},
		{"no usable questions", llm.MockResponse{Text: `[{"question": ""}]`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCoach(tt.resp)
			got := c.Questions(context.Background(), prompt.QuestionParams{Role: "Designer", InterviewType: "behavioral", Count: 5})
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalizeQuestions(t *testing.T) {
	qs, err := NormalizeQuestions([]byte(`[{"text":"What is X?","type":"technical","difficulty":"easy"}, "Why?"]`))
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, interview.CategoryTechnical, qs[0].Category)
	assert.Equal(t, interview.DifficultyEasy, qs[0].Difficulty)
	assert.Equal(t, "Why?", qs[1].Text)

	_, err = NormalizeQuestions([]byte(`[1, 2]`))
	assert.Error(t, err)
	_, err = NormalizeQuestions([]byte(`{"questions": []}`))
	assert.Error(t, err)
}

func TestEvaluateFromService(t *testing.T) {
	c, mock := newCoach(llm.MockResponse{Text: `{"clarity_score": 88, "confidence_score": 77, "content_score": 91, "overall_score": 85,
		"strengths": ["Clear result"], "weaknesses": ["Brief"], "improved_answer": "Better answer.",
		"tips": ["Add context"], "detailed_feedback": "Good."}`})

	ev := c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: dashboardAnswer, Role: "Data Analyst"})
	assert.Equal(t, interview.SourceService, ev.Source)
	assert.Equal(t, [4]float64{88, 77, 91, 85}, ev.Scores())
	assert.Equal(t, "Better answer.", ev.ImprovedAnswer)
	assert.Equal(t, []string{"Clear result"}, ev.Strengths)
	assert.Equal(t, prompt.EvaluationSchema, mock.Calls[0].Schema)
}

func TestEvaluateFloorsServiceScores(t *testing.T) {
	c, _ := newCoach(llm.MockResponse{Text: `{"clarity_score": "40", "confidence_score": 10, "content_score": 150}`})

	ev := c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: dashboardAnswer})
	assert.Equal(t, [4]float64{70, 70, 100, 70}, ev.Scores())
	assert.NotEmpty(t, ev.ImprovedAnswer)
	assert.NotEmpty(t, ev.Strengths)
	assert.NotEmpty(t, ev.Tips)
	assert.NotEmpty(t, ev.DetailedFeedback)
}

func TestEvaluateNonsenseFromService(t *testing.T) {
	c, _ := newCoach(llm.MockResponse{Text: `{"clarity_score": 60, "confidence_score": 60, "content_score": 60, "overall_score": 60}`})

	ev := c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: "idk"})
	assert.Equal(t, [4]float64{60, 60, 60, 60}, ev.Scores())
	assert.Equal(t, []string{consistency.NotApplicableStrength}, ev.Strengths)
}

func TestEvaluateOfflineScenarios(t *testing.T) {
	c := New(llm.OfflineProvider{}, nil, zerolog.Nop())

	ev := c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: dashboardAnswer, Role: "Data Analyst"})
	assert.Equal(t, interview.SourceFallback, ev.Source)
	for _, s := range ev.Scores() {
		assert.GreaterOrEqual(t, s, 70.0)
		assert.LessOrEqual(t, s, 79.0)
	}
	assert.Contains(t, ev.ImprovedAnswer, question)
	assert.Contains(t, ev.ImprovedAnswer, "Situation:")

	ev = c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: "idk"})
	assert.Equal(t, []string{consistency.NotApplicableStrength}, ev.Strengths)
	for _, s := range ev.Scores() {
		assert.Less(t, s, float64(consistency.FloorScore))
	}
}

func TestEvaluateUnshapedFallsBack(t *testing.T) {
	c, _ := newCoach(llm.MockResponse{Text: "Score: eighty out of a hundred"})
	ev := c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: dashboardAnswer})
	assert.Equal(t, interview.SourceFallback, ev.Source)
}

func TestEvaluateTruncatedReplyFallsBack(t *testing.T) {
	c, _ := newCoach(llm.MockResponse{Text: `{"clarity_score": 85, "confidence_score": 8`})
	ev := c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: "I think it went fairly well overall."})
	assert.Equal(t, interview.SourceFallback, ev.Source)
}

func TestEvaluateBackfillsImprovedAnswer(t *testing.T) {
	c, _ := newCoach(llm.MockResponse{Text: `{"clarity_score": 80, "confidence_score": 80, "content_score": 80, "overall_score": 80}`})
	ev := c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: dashboardAnswer, Role: "Data Analyst"})
	assert.Equal(t, fallback.ModelAnswer(question, "Data Analyst"), ev.ImprovedAnswer)
	assert.Equal(t, interview.SourceService, ev.Source)
}

func TestFallbackIsLogged(t *testing.T) {
	var buf bytes.Buffer
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ServiceError{Kind: llm.KindRateLimit}})
	c := New(mock, nil, zerolog.New(&buf))

	c.Evaluate(context.Background(), prompt.EvaluationParams{Question: question, Answer: dashboardAnswer})
	out := buf.String()
	assert.Contains(t, out, `"reason":"service_rate_limit"`)
	assert.Contains(t, out, `"source":"fallback"`)
	assert.Contains(t, out, `"purpose":"evaluation"`)
	assert.Contains(t, out, `"request_id":"`)
}

func TestTips(t *testing.T) {
	st := stats.UserStats{TotalQuestions: 4, Averages: stats.Averages{Clarity: 50, Confidence: 90, Content: 70}}

	c, _ := newCoach(llm.MockResponse{Text: `{"tips":["Slow down"," "],"focus_areas":["Pacing"],"motivational_message":"You got this"}`})
	tips := c.Tips(context.Background(), prompt.TipsParams{Role: "Nurse", Stats: st})
	assert.Equal(t, interview.Tips{
		Tips:                []string{"Slow down"},
		FocusAreas:          []string{"Pacing"},
		MotivationalMessage: "You got this",
		Source:              interview.SourceService,
	}, tips)

	offline := fallback.New().UserTips(st)

	c, _ = newCoach(llm.MockResponse{Text: `{"tips":["Slow down"]}`})
	tips = c.Tips(context.Background(), prompt.TipsParams{Stats: st})
	assert.Equal(t, interview.SourceService, tips.Source)
	assert.Equal(t, offline.FocusAreas, tips.FocusAreas)
	assert.Equal(t, offline.MotivationalMessage, tips.MotivationalMessage)

	c, _ = newCoach(llm.MockResponse{Text: `{"tips":[]}`})
	assert.Equal(t, offline, c.Tips(context.Background(), prompt.TipsParams{Stats: st}))

	c, _ = newCoach(llm.MockResponse{Err: &llm.ServiceError{Kind: llm.KindNetwork}})
	assert.Equal(t, offline, c.Tips(context.Background(), prompt.TipsParams{Stats: st}))
}

func TestRulesVersion(t *testing.T) {
	c, _ := newCoach()
	assert.Equal(t, consistency.RulesVersion, c.RulesVersion())
}
