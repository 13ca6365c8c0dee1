package fallback

import (
	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/stats"
)

// MotivationalMessage is the closing line of offline tips.
const MotivationalMessage = "Keep practicing! Every interview makes you better."

var generalTips = []string{
	"Practice answering questions out loud",
	"Use the STAR method for behavioral questions",
	"Research the company before interviews",
	"Prepare specific examples from your experience",
	"Focus on clear, concise communication",
}

var focusLabels = map[stats.Dimension]string{
	stats.DimensionClarity:    "Clear communication",
	stats.DimensionConfidence: "Confident delivery",
	stats.DimensionContent:    "Depth and relevant examples",
}

// UserTips returns role-agnostic offline improvement advice. Focus areas are the two weakest
// dimensions of the user's averages; a user with no answers gets a fixed
// pair.
func (s *Synthesizer) UserTips(st stats.UserStats) interview.Tips {
	focus := []string{"Communication", "Preparation"}
	if st.TotalQuestions > 0 {
		focus = nil
		for _, d := range st.Averages.Weakest(2) {
			focus = append(focus, focusLabels[d])
		}
	}
	return interview.Tips{
		Tips:                append([]string(nil), generalTips...),
		FocusAreas:          focus,
		MotivationalMessage: MotivationalMessage,
		Source:              interview.SourceFallback,
	}
}
