// Package badges derives one-time milestones from a user's aggregate
// statistics.
package badges

import "github.com/abhisek/prepcoach/internal/stats"

const (
	dimensionThreshold = 80
	dimensionMinCount  = 5
	overallThreshold   = 85
	overallMinCount    = 10
	perfectThreshold   = 95
)

type rule struct {
	id          BadgeID
	description string
	earned      func(stats.UserStats) bool
}

// table is evaluated in order.
var table = []rule{
	{FirstInterview, "Complete your first mock interview", func(s stats.UserStats) bool {
		return s.TotalSessions >= 1
	}},
	{TenQuestions, "Answer 10 questions", func(s stats.UserStats) bool {
		return s.TotalQuestions >= 10
	}},
	{FiftyQuestions, "Answer 50 questions", func(s stats.UserStats) bool {
		return s.TotalQuestions >= 50
	}},
	{Dedicated, "Complete 5 mock interviews", func(s stats.UserStats) bool {
		return s.TotalSessions >= 5
	}},
	{ClearCommunicator, "Average 80+ clarity over at least 5 answers", dimension(stats.DimensionClarity)},
	{ConfidentSpeaker, "Average 80+ confidence over at least 5 answers", dimension(stats.DimensionConfidence)},
	{ContentExpert, "Average 80+ content over at least 5 answers", dimension(stats.DimensionContent)},
	{HighAchiever, "Average 85+ overall over at least 10 answers", func(s stats.UserStats) bool {
		return s.TotalQuestions >= overallMinCount && s.Averages.Overall >= overallThreshold
	}},
	{PerfectAnswer, "Score 95+ overall on a single answer", func(s stats.UserStats) bool {
		return s.BestOverall >= perfectThreshold
	}},
}

func dimension(d stats.Dimension) func(stats.UserStats) bool {
	return func(s stats.UserStats) bool {
		return s.TotalQuestions >= dimensionMinCount && s.Averages.Of(d) >= dimensionThreshold
	}
}

// Evaluate returns the badges earned by st that are not in held, in table
// order. It is pure: calling it again with the result added to held
// returns nothing.
func Evaluate(st stats.UserStats, held map[BadgeID]bool) []BadgeID {
	var out []BadgeID
	for _, r := range table {
		if held[r.id] {
			continue
		}
		if r.earned(st) {
			out = append(out, r.id)
		}
	}
	return out
}
