package session

import (
	"time"

	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/stats"
)

// Phase is the lifecycle phase of a practice session.
type Phase int

const (
	PhaseActive   Phase = iota // Accepting answers
	PhaseComplete              // Finished; no more answers
)

// State tracks one running practice session. It is not safe for concurrent
// use; callers serialize access per session.
type State struct {
	// Session is the persisted session with its questions in presentation
	// order.
	Session interview.Session

	// Phase is the current lifecycle phase.
	Phase Phase

	// StartTime is when the session began.
	StartTime time.Time

	// answered marks question IDs with at least one submitted answer.
	answered map[int]bool

	// agg folds every submitted evaluation, resubmissions included.
	agg stats.Aggregator
}

func newState(s interview.Session, start time.Time) *State {
	return &State{
		Session:   s,
		Phase:     PhaseActive,
		StartTime: start,
		answered:  make(map[int]bool),
	}
}

// Next returns the first unanswered question in presentation order, or nil
// when every question has an answer.
func (st *State) Next() *interview.Question {
	for i := range st.Session.Questions {
		q := &st.Session.Questions[i]
		if !st.answered[q.ID] {
			return q
		}
	}
	return nil
}

// Question returns the session question with the given ID.
func (st *State) Question(id int) (interview.Question, bool) {
	for _, q := range st.Session.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return interview.Question{}, false
}

// Answered returns the number of distinct questions answered.
func (st *State) Answered() int { return len(st.answered) }

// Total returns the number of questions in the session.
func (st *State) Total() int { return len(st.Session.Questions) }

// Averages returns the running averages of this session's evaluations.
func (st *State) Averages() stats.Averages { return st.agg.Averages() }
