package session

import (
	"time"

	"github.com/abhisek/prepcoach/internal/badges"
	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/stats"
)

// SubmitResult is returned for every submitted answer.
type SubmitResult struct {
	ResponseID int64
	Question   interview.Question
	Evaluation interview.Evaluation
	Averages   stats.Averages
	Answered   int
	Total      int
}

// Summary describes a finished session.
type Summary struct {
	SessionID   int64
	UserName    string
	Role        string
	Duration    time.Duration
	Answered    int
	Total       int
	Evaluations int
	Averages    stats.Averages
	BestOverall float64
	NewBadges   []badges.BadgeID
	User        stats.UserStats
}

// BuildSummary creates a Summary from the session state. Badge and user
// fields are filled by Service.Finish.
func BuildSummary(st *State, end time.Time) *Summary {
	return &Summary{
		SessionID:   st.Session.ID,
		UserName:    st.Session.UserName,
		Role:        st.Session.Role,
		Duration:    end.Sub(st.StartTime),
		Answered:    st.Answered(),
		Total:       st.Total(),
		Evaluations: st.agg.Count(),
		Averages:    st.agg.Averages(),
		BestOverall: st.agg.Best(),
	}
}
