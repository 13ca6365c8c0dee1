// Package stats folds evaluation records into per-session and per-user
// statistics. Everything here is derived from persisted history; nothing
// keeps hidden counters.
package stats

import (
	"sort"
	"time"

	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/store"
)

// DefaultRecentSessions is used when ForUser is asked for no recent sessions.
const DefaultRecentSessions = 5

// Dimension names one scored aspect of an answer.
type Dimension string

const (
	DimensionClarity    Dimension = "clarity"
	DimensionConfidence Dimension = "confidence"
	DimensionContent    Dimension = "content"
)

// Averages holds the mean of each score dimension.
type Averages struct {
	Clarity    float64 `json:"clarity"`
	Confidence float64 `json:"confidence"`
	Content    float64 `json:"content"`
	Overall    float64 `json:"overall"`
}

// Of returns the average for a dimension.
func (a Averages) Of(d Dimension) float64 {
	switch d {
	case DimensionClarity:
		return a.Clarity
	case DimensionConfidence:
		return a.Confidence
	case DimensionContent:
		return a.Content
	}
	return 0
}

// Weakest returns the n lowest-scoring dimensions, lowest first. Ties keep
// the clarity, confidence, content order.
func (a Averages) Weakest(n int) []Dimension {
	dims := []Dimension{DimensionClarity, DimensionConfidence, DimensionContent}
	sort.SliceStable(dims, func(i, j int) bool { return a.Of(dims[i]) < a.Of(dims[j]) })
	if n > len(dims) {
		n = len(dims)
	}
	if n < 0 {
		n = 0
	}
	return dims[:n]
}

// Aggregator keeps running sums for a stream of evaluations.
// The zero value is ready to use.
type Aggregator struct {
	count    int
	sums     [4]float64
	best     float64
	fallback int
}

// Record adds one evaluation.
func (a *Aggregator) Record(e interview.Evaluation) {
	scores := e.Scores()
	for i, s := range scores {
		a.sums[i] += s
	}
	if a.count == 0 || e.OverallScore > a.best {
		a.best = e.OverallScore
	}
	if e.Source == interview.SourceFallback {
		a.fallback++
	}
	a.count++
}

// Count returns the number of recorded evaluations.
func (a *Aggregator) Count() int { return a.count }

// Best returns the highest overall score seen, or 0 when empty.
func (a *Aggregator) Best() float64 { return a.best }

// FallbackCount returns how many recorded evaluations came from the fallback path.
func (a *Aggregator) FallbackCount() int { return a.fallback }

// Averages returns the arithmetic mean of each dimension. An empty
// aggregator yields all zeros.
func (a *Aggregator) Averages() Averages {
	if a.count == 0 {
		return Averages{}
	}
	n := float64(a.count)
	return Averages{
		Clarity:    a.sums[0] / n,
		Confidence: a.sums[1] / n,
		Content:    a.sums[2] / n,
		Overall:    a.sums[3] / n,
	}
}

// SessionHistory is one session rebuilt from history rows.
type SessionHistory struct {
	ID            int64
	UserName      string
	Role          string
	Seniority     string
	InterviewType string
	CreatedAt     time.Time
	Evaluations   []interview.Evaluation
}

// SessionStats summarizes one session.
type SessionStats struct {
	SessionID     int64     `json:"session_id"`
	Role          string    `json:"role"`
	InterviewType string    `json:"interview_type"`
	CreatedAt     time.Time `json:"created_at"`
	Questions     int       `json:"questions"`
	Averages      Averages  `json:"averages"`
}

// UserStats summarizes all of a user's sessions.
type UserStats struct {
	UserName       string         `json:"user_name"`
	TotalSessions  int            `json:"total_sessions"`
	TotalQuestions int            `json:"total_questions"`
	Averages       Averages       `json:"averages"`
	BestOverall    float64        `json:"best_overall"`
	FallbackShare  float64        `json:"fallback_share"` // fraction in [0,1]
	Recent         []SessionStats `json:"recent_sessions"`
}

// GroupSessions rebuilds sessions from joined history rows. Sessions keep
// the order in which their first response appears; evaluations keep row
// order.
func GroupSessions(rows []store.HistoryRow) []SessionHistory {
	index := make(map[int64]int)
	var out []SessionHistory
	for _, r := range rows {
		i, ok := index[r.SessionID]
		if !ok {
			i = len(out)
			index[r.SessionID] = i
			out = append(out, SessionHistory{
				ID:            r.SessionID,
				UserName:      r.UserName,
				Role:          r.Role,
				Seniority:     r.Seniority,
				InterviewType: r.InterviewType,
				CreatedAt:     r.SessionCreatedAt,
			})
		}
		out[i].Evaluations = append(out[i].Evaluations, r.Evaluation)
	}
	return out
}

// ForSession summarizes a single session.
func ForSession(s SessionHistory) SessionStats {
	var agg Aggregator
	for _, e := range s.Evaluations {
		agg.Record(e)
	}
	return SessionStats{
		SessionID:     s.ID,
		Role:          s.Role,
		InterviewType: s.InterviewType,
		CreatedAt:     s.CreatedAt,
		Questions:     agg.Count(),
		Averages:      agg.Averages(),
	}
}

// ForUser aggregates across sessions. Averages are taken over every
// evaluation, not over per-session averages. recent bounds the number of
// most recent sessions returned; non-positive means DefaultRecentSessions.
func ForUser(sessions []SessionHistory, recent int) UserStats {
	if recent <= 0 {
		recent = DefaultRecentSessions
	}

	var agg Aggregator
	for _, s := range sessions {
		for _, e := range s.Evaluations {
			agg.Record(e)
		}
	}

	st := UserStats{
		TotalSessions:  len(sessions),
		TotalQuestions: agg.Count(),
		Averages:       agg.Averages(),
		BestOverall:    agg.Best(),
		Recent:         []SessionStats{},
	}
	if len(sessions) > 0 {
		st.UserName = sessions[0].UserName
	}
	if agg.Count() > 0 {
		st.FallbackShare = float64(agg.FallbackCount()) / float64(agg.Count())
	}

	ordered := make([]SessionHistory, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID > ordered[j].ID
	})
	if len(ordered) > recent {
		ordered = ordered[:recent]
	}
	for _, s := range ordered {
		st.Recent = append(st.Recent, ForSession(s))
	}
	return st
}
