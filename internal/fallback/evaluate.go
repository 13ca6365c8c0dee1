package fallback

import (
	"math"
	"regexp"
	"strings"

	"github.com/abhisek/prepcoach/internal/consistency"
	"github.com/abhisek/prepcoach/internal/interview"
)

// Tier is the length class of an answer.
type Tier string

const (
	TierNonsense Tier = "nonsense"
	TierShort    Tier = "short"
	TierMedium   Tier = "medium"
	TierLong     Tier = "long"
)

const (
	shortBelowWords  = 15
	mediumBelowWords = 30
)

// band is the inclusive score range for a tier.
type band struct{ lo, hi float64 }

var bands = map[Tier]band{
	TierNonsense: {5, 20},
	TierShort:    {50, 64},
	TierMedium:   {70, 79},
	TierLong:     {80, 90},
}

// Band returns the score range of a tier.
func Band(t Tier) (lo, hi float64) {
	b := bands[t]
	return b.lo, b.hi
}

// classify returns the tier of an answer.
func classify(answer string) Tier {
	if consistency.IsNonsense(answer) {
		return TierNonsense
	}
	switch wc := consistency.WordCount(answer); {
	case wc < shortBelowWords:
		return TierShort
	case wc < mediumBelowWords:
		return TierMedium
	default:
		return TierLong
	}
}

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+(\s|$)`)
	digits      = regexp.MustCompile(`\d`)
)

var hedges = []string{
	"maybe", "i think", "i guess", "probably", "perhaps", "kind of", "sort of",
	"not sure", "might", "i believe", "possibly", "hopefully",
}

// signals are the observable features of an answer.
type signals struct {
	words      int
	sentences  int
	terminated bool
	hedges     int
	numbers    bool
}

func analyze(answer string) signals {
	t := strings.TrimSpace(answer)
	lower := strings.ToLower(t)

	sig := signals{
		words:      consistency.WordCount(t),
		sentences:  len(sentenceEnd.FindAllStringIndex(t, -1)),
		terminated: strings.HasSuffix(t, ".") || strings.HasSuffix(t, "!") || strings.HasSuffix(t, "?"),
		numbers:    digits.MatchString(t),
	}
	if sig.sentences == 0 && sig.words > 0 {
		sig.sentences = 1
	}
	padded := " " + strings.Join(strings.Fields(lower), " ") + " "
	for _, h := range hedges {
		sig.hedges += strings.Count(padded, " "+h+" ")
	}
	return sig
}

// clarity rewards complete sentences of readable length.
func (s signals) clarity() float64 {
	var v float64
	if s.terminated {
		v += 0.3
	}
	if s.sentences >= 2 {
		v += 0.4
	}
	if s.sentences > 0 {
		avg := float64(s.words) / float64(s.sentences)
		if avg >= 8 && avg <= 25 {
			v += 0.3
		}
	}
	return v
}

// confidence drops with each hedging phrase.
func (s signals) confidence() float64 {
	return 1 - math.Min(float64(s.hedges), 3)/3
}

// content rewards concrete numbers and length within the tier.
func (s signals) content(t Tier) float64 {
	var v float64
	if s.numbers {
		v += 0.5
	}
	var frac float64
	switch t {
	case TierNonsense:
		frac = float64(s.words) / 3
	case TierShort:
		frac = float64(s.words-3) / float64(shortBelowWords-3)
	case TierMedium:
		frac = float64(s.words-shortBelowWords) / float64(mediumBelowWords-shortBelowWords)
	case TierLong:
		frac = float64(s.words-mediumBelowWords) / 70
	}
	return v + 0.5*math.Max(0, math.Min(frac, 1))
}

func (b band) at(signal float64) float64 {
	return b.lo + math.Round((b.hi-b.lo)*math.Max(0, math.Min(signal, 1)))
}

// Evaluate scores an answer offline. Scores sit inside the answer's tier
// band and then pass through the same bounds and floor as service output.
func (s *Synthesizer) Evaluate(in consistency.EvalInput) interview.Evaluation {
	tier := classify(in.Answer)
	sig := analyze(in.Answer)
	b := bands[tier]

	ev := interview.Evaluation{
		ClarityScore:     b.at(sig.clarity()),
		ConfidenceScore:  b.at(sig.confidence()),
		ContentScore:     b.at(sig.content(tier)),
		Strengths:        strengthsFor(tier, sig),
		Weaknesses:       weaknessesFor(tier, sig),
		ImprovedAnswer:   ModelAnswer(in.Question, in.Role),
		Tips:             tipsFor(tier),
		DetailedFeedback: feedbackFor(tier),
		SoftSkills:       softSkillsFor(tier, sig),
		Source:           interview.SourceFallback,
	}
	ev.OverallScore = math.Round((ev.ClarityScore + ev.ConfidenceScore + ev.ContentScore) / 3)

	consistency.ApplyBounds(&ev, in.Answer)
	return ev
}

var (
	strengthPool = map[Tier][]string{
		TierShort:  {"Gets to the point quickly", "Addresses the question directly"},
		TierMedium: {"Provides relevant detail", "Keeps a clear focus"},
		TierLong:   {"Thorough, well-developed answer", "Sets the context before the details"},
	}
	weaknessPool = map[Tier][]string{
		TierNonsense: {"The answer does not address the question", "No example or detail is given"},
		TierShort:    {"Needs more detail and context", "Lacks a concrete example"},
		TierMedium:   {"Could quantify the impact", "Could explain the reasoning behind your choices"},
		TierLong:     {"Could be more concise", "The key point could come earlier"},
	}
	tipPool = map[Tier][]string{
		TierNonsense: {
			"Take a moment to think, then answer in full sentences",
			"Use the STAR method: Situation, Task, Action, Result",
			"Aim for at least three or four sentences",
		},
		TierShort: {
			"Expand your answer with a specific example",
			"Explain the result of your actions",
			"Use the STAR method to structure your response",
		},
		TierMedium: {
			"Add numbers to show the impact of your work",
			"Close with what you learned",
			"Keep the structure tight: situation, action, result",
		},
		TierLong: {
			"Lead with your main point",
			"Trim details that do not support the result",
			"Practice delivering the answer in under two minutes",
		},
	}
	softSkillPool = map[Tier][]string{
		TierShort:  {"Communication"},
		TierMedium: {"Communication", "Clarity"},
		TierLong:   {"Communication", "Clarity", "Storytelling"},
	}
	feedbackPool = map[Tier]string{
		TierNonsense: "This answer is too short to evaluate. Try again with a complete response that explains what you did and why it mattered.",
		TierShort:    "You answered the question, but the response is brief. Add a concrete example and describe the outcome so the interviewer can judge your experience.",
		TierMedium:   "A solid answer with relevant detail. Strengthen it by quantifying the impact and making your own contribution explicit.",
		TierLong:     "A thorough, well-developed answer. Make sure the main point lands early and keep supporting details focused on the result.",
	}
)

func strengthsFor(t Tier, sig signals) []string {
	if t == TierNonsense {
		return []string{consistency.NotApplicableStrength}
	}
	out := append([]string(nil), strengthPool[t]...)
	if sig.numbers {
		out = append(out, "Uses concrete numbers to show impact")
	}
	if sig.hedges == 0 {
		out = append(out, "Speaks with confidence")
	}
	return out
}

func weaknessesFor(t Tier, sig signals) []string {
	out := append([]string(nil), weaknessPool[t]...)
	if sig.hedges > 0 && t != TierNonsense {
		out = append(out, `Hedging words such as "maybe" or "I think" weaken the message`)
	}
	return out
}

func softSkillsFor(t Tier, sig signals) []string {
	out := append([]string{}, softSkillPool[t]...)
	if t == TierNonsense {
		return out
	}
	if sig.hedges == 0 {
		out = append(out, "Confidence")
	}
	if sig.numbers {
		out = append(out, "Results orientation")
	}
	return out
}

func tipsFor(t Tier) []string {
	return append([]string(nil), tipPool[t]...)
}

func feedbackFor(t Tier) string {
	return feedbackPool[t]
}
