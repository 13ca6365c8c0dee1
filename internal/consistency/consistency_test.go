package consistency

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mod/semver"

	"github.com/abhisek/prepcoach/internal/interview"
)

type stubFill struct{}

func (stubFill) ImprovedAnswer(in EvalInput) string { return "model answer for " + in.Question }
func (stubFill) Strengths(EvalInput) []string       { return []string{"stub strength"} }
func (stubFill) Tips(EvalInput) []string            { return []string{"stub tip"} }
func (stubFill) Feedback(EvalInput) string          { return "stub feedback" }

const substantive = "I led the migration of our billing service to Kubernetes and cut deploy time in half."

func ptr(v float64) *float64 { return &v }

func TestRulesVersionIsSemver(t *testing.T) {
	assert.True(t, semver.IsValid(RulesVersion))
	assert.Equal(t, RulesVersion, NewEnforcer(stubFill{}).Version())
	assert.True(t, IsCurrentRules(RulesVersion))
	assert.False(t, IsCurrentRules("v0.9.0"))
	assert.False(t, IsCurrentRules(""))
}

func TestIsNonsense(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"test", true},
		{"idk", true},
		{"ab", true},
		{"I don't know", true},
		{"I don't know.", true},
		{"  N/A  ", true},
		{"Lorem ipsum", true},
		{"ok sure fine", false},
		{"a b c", true}, // under ten characters
		{"I would first clarify the requirements with all of the stakeholders.", false},
		{substantive, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNonsense(tt.in), "IsNonsense(%q)", tt.in)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5))
	assert.Equal(t, 100.0, Clamp(140))
	assert.Equal(t, 42.5, Clamp(42.5))
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 100.0, Clamp(math.Inf(1)))
}

func TestEnforce_BoundsHoldForAnyInput(t *testing.T) {
	e := NewEnforcer(stubFill{})
	inputs := []Raw{
		{},
		{Clarity: ptr(-20), Confidence: ptr(250), Content: ptr(math.NaN()), Overall: ptr(1e9)},
		{Clarity: ptr(50), Overall: ptr(-1)},
	}
	for _, answer := range []string{"idk", "short but real answer", substantive} {
		for _, raw := range inputs {
			ev, _ := e.Enforce(raw, EvalInput{Question: "Q?", Answer: answer})
			for _, s := range ev.Scores() {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 100.0)
			}
		}
	}
}

func TestEnforce_FloorForSubstantiveAnswers(t *testing.T) {
	e := NewEnforcer(stubFill{})
	ev, rep := e.Enforce(Raw{Clarity: ptr(0), Confidence: ptr(55), Content: ptr(91)}, EvalInput{Question: "Q?", Answer: substantive})

	assert.False(t, rep.Nonsense)
	assert.Equal(t, [4]float64{70, 70, 91, 70}, ev.Scores())
	assert.ElementsMatch(t, []string{"clarity_score", "confidence_score", "overall_score"}, rep.Floored)
	assert.Equal(t, interview.SourceService, ev.Source)
}

func TestEnforce_NoFloorUnderTenWords(t *testing.T) {
	e := NewEnforcer(stubFill{})
	ev, rep := e.Enforce(Raw{Clarity: ptr(40), Confidence: ptr(40), Content: ptr(40), Overall: ptr(40)},
		EvalInput{Answer: "I would ask my manager for help."})

	assert.False(t, rep.Nonsense)
	assert.Empty(t, rep.Floored)
	assert.Equal(t, [4]float64{40, 40, 40, 40}, ev.Scores())
}

func TestEnforce_NonsenseGetsSentinelAndNoFloor(t *testing.T) {
	e := NewEnforcer(stubFill{})
	ev, rep := e.Enforce(Raw{Clarity: ptr(12), Confidence: ptr(5), Content: ptr(3), Overall: ptr(4)}, EvalInput{Answer: "idk"})

	assert.True(t, rep.Nonsense)
	assert.Equal(t, [4]float64{12, 5, 3, 4}, ev.Scores())
	assert.Equal(t, []string{NotApplicableStrength}, ev.Strengths)
}

func TestEnforce_NonsenseKeepsServiceStrengths(t *testing.T) {
	e := NewEnforcer(stubFill{})
	ev, _ := e.Enforce(Raw{Strengths: []string{"Honest"}}, EvalInput{Answer: "idk"})
	assert.Equal(t, []string{"Honest"}, ev.Strengths)
}

func TestEnforce_BackfillsEmptyFields(t *testing.T) {
	e := NewEnforcer(stubFill{})
	ev, rep := e.Enforce(Raw{Overall: ptr(80)}, EvalInput{Question: "Why us?", Answer: substantive})

	assert.Equal(t, "model answer for Why us?", ev.ImprovedAnswer)
	assert.Equal(t, []string{"stub strength"}, ev.Strengths)
	assert.Equal(t, []string{"stub tip"}, ev.Tips)
	assert.Equal(t, "stub feedback", ev.DetailedFeedback)
	assert.NotNil(t, ev.Weaknesses)
	assert.Equal(t, []string{"improved_answer", "strengths", "tips", "detailed_feedback"}, rep.Backfilled)
}

func TestEnforce_KeepsServiceContent(t *testing.T) {
	e := NewEnforcer(stubFill{})
	raw := Raw{
		Overall: ptr(88), Strengths: []string{"Specific"}, Weaknesses: []string{"Long"},
		ImprovedAnswer: "Mine.", Tips: []string{"Pause"}, DetailedFeedback: "Good.",
	}
	ev, rep := e.Enforce(raw, EvalInput{Answer: substantive})
	assert.Empty(t, rep.Backfilled)
	assert.Equal(t, "Mine.", ev.ImprovedAnswer)
	assert.Equal(t, 88.0, ev.OverallScore)
}

func TestDecode(t *testing.T) {
	data := json.RawMessage(`{
		"clarity_score": "85/100",
		"confidence_score": "72%",
		"content_score": 64.5,
		"overall_score": "8/10",
		"strengths": "Clear structure",
		"improvements": ["Add metrics", "", "Be concise"],
		"suggested_answer": "In my last role...",
		"tips": ["Pause", 3],
		"critique": "Solid overall."
	}`)

	raw, issues, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 85.0, *raw.Clarity)
	assert.Equal(t, 72.0, *raw.Confidence)
	assert.Equal(t, 64.5, *raw.Content)
	assert.InDelta(t, 80.0, *raw.Overall, 1e-9)
	assert.Equal(t, []string{"Clear structure"}, raw.Strengths)
	assert.Equal(t, []string{"Add metrics", "Be concise"}, raw.Weaknesses)
	assert.Equal(t, "In my last role...", raw.ImprovedAnswer)
	assert.Equal(t, []string{"Pause", "3"}, raw.Tips)
	assert.Equal(t, "Solid overall.", raw.DetailedFeedback)
}

func TestDecode_NestedScoresAndIssues(t *testing.T) {
	raw, issues, err := Decode(json.RawMessage(`{"scores": {"clarity": 70, "confidence": "high", "content": 60, "overall": 65}}`))
	require.NoError(t, err)
	assert.Equal(t, 70.0, *raw.Clarity)
	assert.Nil(t, raw.Confidence)
	assert.Equal(t, 65.0, *raw.Overall)
	assert.Contains(t, issues, "missing confidence_score")
	assert.Contains(t, issues, "missing improved_answer")
}

func TestDecode_NotAnObject(t *testing.T) {
	_, _, err := Decode(json.RawMessage(`[1,2]`))
	assert.Error(t, err)
	_, _, err = Decode(json.RawMessage(`null`))
	assert.Error(t, err)
}

func TestEnforce_RescalesTenPointScores(t *testing.T) {
	e := NewEnforcer(stubFill{})
	ev, rep := e.Enforce(Raw{Clarity: ptr(8), Confidence: ptr(7.5), Content: ptr(9)}, EvalInput{Answer: substantive})

	assert.True(t, rep.Rescaled)
	assert.Equal(t, [4]float64{80, 75, 90, 70}, ev.Scores())
	assert.Equal(t, []string{"overall_score"}, rep.Floored)
}

func TestEnforce_TenPointScaleLeftAloneForNonsense(t *testing.T) {
	e := NewEnforcer(stubFill{})
	ev, rep := e.Enforce(Raw{Clarity: ptr(8), Confidence: ptr(5), Content: ptr(3), Overall: ptr(4)}, EvalInput{Answer: "idk"})

	assert.False(t, rep.Rescaled)
	assert.Equal(t, [4]float64{8, 5, 3, 4}, ev.Scores())
}

func TestOnTenPointScale(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		want bool
	}{
		{"all within ten", Raw{Clarity: ptr(8), Confidence: ptr(7), Content: ptr(9)}, true},
		{"one above ten", Raw{Clarity: ptr(8), Overall: ptr(65)}, false},
		{"all zero", Raw{Clarity: ptr(0), Content: ptr(0)}, false},
		{"nothing present", Raw{}, false},
		{"explicit scale", Raw{Clarity: ptr(8), ScaleGiven: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OnTenPointScale(tt.raw))
		})
	}
}

func TestDecode_ScaleAndSoftSkills(t *testing.T) {
	raw, _, err := Decode(json.RawMessage(`{"clarity_score": 8, "confidence_score": 7, "content_score": 9,
		"critique": "Good.", "soft_skills": ["Communication", "Storytelling"]}`))
	require.NoError(t, err)
	assert.False(t, raw.ScaleGiven)
	assert.Equal(t, []string{"Communication", "Storytelling"}, raw.SoftSkills)

	raw, _, err = Decode(json.RawMessage(`{"clarity_score": "7%", "content_score": 9}`))
	require.NoError(t, err)
	assert.True(t, raw.ScaleGiven)
	assert.Equal(t, 7.0, *raw.Clarity)
}

func TestEnforce_SoftSkills(t *testing.T) {
	e := NewEnforcer(stubFill{})
	ev, _ := e.Enforce(Raw{SoftSkills: []string{"Storytelling"}}, EvalInput{Answer: substantive})
	assert.Equal(t, []string{"Storytelling"}, ev.SoftSkills)

	ev, _ = e.Enforce(Raw{}, EvalInput{Answer: substantive})
	assert.NotNil(t, ev.SoftSkills)
	assert.Empty(t, ev.SoftSkills)
}
