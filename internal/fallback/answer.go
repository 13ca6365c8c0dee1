package fallback

import (
	"fmt"
	"strings"
)

// QuestionKind is the shape of answer a question calls for.
type QuestionKind int

const (
	KindGeneric QuestionKind = iota
	KindExperience
	KindComparison
	KindApproach
	KindDefinition
)

var kindCues = []struct {
	kind     QuestionKind
	prefixes []string
	contains []string
}{
	{
		kind:     KindExperience,
		prefixes: []string{"tell me about a", "describe a time", "describe a situation", "give me an example", "give an example"},
		contains: []string{"a time when", "a time you", "time you", "situation where", "your experience", "example of when"},
	},
	{
		kind:     KindComparison,
		contains: []string{" vs ", " vs. ", " versus ", "difference between", "compare", "pros and cons", " better than "},
	},
	{
		kind:     KindApproach,
		prefixes: []string{"how ", "what steps", "walk me through", "what would you do", "what do you do"},
		contains: []string{"your approach", "your process", "how would you", "how do you"},
	},
	{
		kind:     KindDefinition,
		prefixes: []string{"what is", "what are", "what does", "what's", "define", "explain"},
	},
}

// ClassifyQuestion returns the answer shape a question calls for. Cues are
// checked in order: experience, comparison, approach, definition.
func ClassifyQuestion(question string) QuestionKind {
	q := " " + strings.Join(strings.Fields(strings.ToLower(question)), " ") + " "
	trimmed := strings.TrimSpace(q)
	for _, c := range kindCues {
		for _, p := range c.prefixes {
			if strings.HasPrefix(trimmed, p) {
				return c.kind
			}
		}
		for _, s := range c.contains {
			if strings.Contains(q, s) {
				return c.kind
			}
		}
	}
	return KindGeneric
}

// ModelAnswer writes a first-person example answer to the question for the
// role. Experience questions get a Situation, Task, Action, Result answer.
func ModelAnswer(question, role string) string {
	q := strings.Join(strings.Fields(question), " ")
	if q == "" {
		q = "this question"
	} else {
		q = "“" + q + "”"
	}
	r := withArticle(role)

	switch ClassifyQuestion(question) {
	case KindExperience:
		return fmt.Sprintf("When I think about %s, one example from my work as %s stands out. "+
			"Situation: our team was behind on a project with a tight deadline and unclear ownership. "+
			"Task: I was responsible for getting it back on track without lowering quality. "+
			"Action: I broke the work into milestones, agreed priorities with the stakeholders and checked in with the team every day so blockers surfaced early. "+
			"Result: we delivered on time, the stakeholders were happy with the outcome, and the process I set up became the team's default.", q, r)
	case KindComparison:
		return fmt.Sprintf("To answer %s: both options have their place, and as %s I choose based on the problem rather than habit. "+
			"The first is usually simpler to start with and easier for others to maintain, while the second gives more control and scales better as requirements grow. "+
			"I compare them on cost, complexity and how well they fit the team's skills. "+
			"On a recent project I started with the simpler option, measured where it became a bottleneck, and moved only that part to the more powerful one.", q, r)
	case KindApproach:
		return fmt.Sprintf("My approach to %s follows a few clear steps. "+
			"First, I make sure I understand the goal and the constraints by asking clarifying questions. "+
			"Next, I break the problem into smaller parts and tackle the riskiest one first. "+
			"As %s, I keep stakeholders informed as I go and validate each step with data or tests before moving on. "+
			"Finally, I review the outcome and note what I would do differently next time.", q, r)
	case KindDefinition:
		return fmt.Sprintf("When asked %s, I start with a clear one-sentence definition and then ground it in practice. "+
			"In my work as %s, I applied this idea on a recent project where it directly shaped how we made decisions. "+
			"What matters most to me is knowing when it applies and where its limits are, so I always close with the effect it had for our users.", q, r)
	default:
		return fmt.Sprintf("Regarding %s, as %s I would answer by drawing on a specific experience. "+
			"I focus on what I did personally, why I made the choices I made, and what the measurable result was. "+
			"For example, on my last project I took ownership of a problem nobody had picked up, worked with the people affected to understand it, "+
			"and delivered a fix that saved the team several hours every week.", q, r)
	}
}

func withArticle(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return "a professional"
	}
	switch strings.ToLower(role[:1]) {
	case "a", "e", "i", "o", "u":
		return "an " + role
	}
	return "a " + role
}
