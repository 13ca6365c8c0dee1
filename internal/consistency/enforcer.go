package consistency

import (
	"github.com/abhisek/prepcoach/internal/interview"
)

// EvalInput is the context an evaluation was produced for.
type EvalInput struct {
	Question string
	Answer   string
	Role     string
}

// Backfiller supplies offline content for fields the grader left empty.
type Backfiller interface {
	ImprovedAnswer(in EvalInput) string
	Strengths(in EvalInput) []string
	Tips(in EvalInput) []string
	Feedback(in EvalInput) string
}

// Report describes what Enforce changed.
type Report struct {
	Nonsense   bool
	Rescaled   bool
	Floored    []string
	Backfilled []string
}

// Enforcer applies the rule set to decoded evaluations.
type Enforcer struct {
	fill Backfiller
}

// NewEnforcer returns an Enforcer that backfills empty fields from fill.
func NewEnforcer(fill Backfiller) *Enforcer {
	return &Enforcer{fill: fill}
}

// Version returns the rule set version.
func (e *Enforcer) Version() string { return RulesVersion }

// Enforce turns a decoded evaluation into a fully populated Evaluation with
// Source service. Rules apply in order: nonsense classification, ten-point
// rescaling for substantive answers, clamp, nonsense sentinel or score
// floor, then backfill of empty fields.
func (e *Enforcer) Enforce(raw Raw, in EvalInput) (interview.Evaluation, Report) {
	var rep Report
	rep.Nonsense = IsNonsense(in.Answer)
	if !rep.Nonsense && OnTenPointScale(raw) {
		raw = rescale(raw)
		rep.Rescaled = true
	}

	ev := interview.Evaluation{
		ClarityScore:     valueOr0(raw.Clarity),
		ConfidenceScore:  valueOr0(raw.Confidence),
		ContentScore:     valueOr0(raw.Content),
		OverallScore:     valueOr0(raw.Overall),
		Strengths:        raw.Strengths,
		Weaknesses:       raw.Weaknesses,
		ImprovedAnswer:   raw.ImprovedAnswer,
		Tips:             raw.Tips,
		DetailedFeedback: raw.DetailedFeedback,
		SoftSkills:       raw.SoftSkills,
		Source:           interview.SourceService,
	}

	rep.Floored = ApplyBounds(&ev, in.Answer)

	if rep.Nonsense && len(ev.Strengths) == 0 {
		ev.Strengths = []string{NotApplicableStrength}
	}

	if ev.ImprovedAnswer == "" {
		ev.ImprovedAnswer = e.fill.ImprovedAnswer(in)
		rep.Backfilled = append(rep.Backfilled, "improved_answer")
	}
	if len(ev.Strengths) == 0 {
		ev.Strengths = e.fill.Strengths(in)
		rep.Backfilled = append(rep.Backfilled, "strengths")
	}
	if len(ev.Tips) == 0 {
		ev.Tips = e.fill.Tips(in)
		rep.Backfilled = append(rep.Backfilled, "tips")
	}
	if ev.DetailedFeedback == "" {
		ev.DetailedFeedback = e.fill.Feedback(in)
		rep.Backfilled = append(rep.Backfilled, "detailed_feedback")
	}
	if ev.Weaknesses == nil {
		ev.Weaknesses = []string{}
	}
	if ev.SoftSkills == nil {
		ev.SoftSkills = []string{}
	}

	return ev, rep
}

// OnTenPointScale reports whether every present score is a bare number in
// [0,10] with at least one above zero, the shape of a grader scoring out
// of ten.
func OnTenPointScale(raw Raw) bool {
	if raw.ScaleGiven {
		return false
	}
	present := 0
	nonZero := false
	for _, v := range []*float64{raw.Clarity, raw.Confidence, raw.Content, raw.Overall} {
		if v == nil {
			continue
		}
		if *v < 0 || *v > 10 {
			return false
		}
		present++
		nonZero = nonZero || *v > 0
	}
	return present > 0 && nonZero
}

func rescale(raw Raw) Raw {
	scale := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		x := *v * 10
		return &x
	}
	raw.Clarity = scale(raw.Clarity)
	raw.Confidence = scale(raw.Confidence)
	raw.Content = scale(raw.Content)
	raw.Overall = scale(raw.Overall)
	return raw
}

func valueOr0(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
