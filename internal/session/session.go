// Package session runs a practice interview: start with a question list,
// submit answers for evaluation, finish and award badges. Every evaluated
// answer is persisted before it is returned.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/prepcoach/internal/badges"
	"github.com/abhisek/prepcoach/internal/coach"
	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/prompt"
	"github.com/abhisek/prepcoach/internal/stats"
	"github.com/abhisek/prepcoach/internal/store"
)

var (
	// ErrSessionComplete is returned when answering a finished session.
	ErrSessionComplete = errors.New("session is complete")

	// ErrUnknownQuestion is returned for a question ID not in the session.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrNoUser is returned when a session is started without a user name.
	ErrNoUser = errors.New("user name is required")
)

// now is replaced in tests.
var now = time.Now

// Config tunes a Service.
type Config struct {
	// RecentSessions is how many recent sessions user stats include.
	RecentSessions int
}

// Params describes a session to start.
type Params struct {
	UserName      string
	Role          string
	Seniority     string
	InterviewType string
	Count         int
}

// Service coordinates the pipeline, the record store and badges.
type Service struct {
	coach  *coach.Coach
	repo   store.RecordRepo
	badges *badges.Service
	cfg    Config
	log    zerolog.Logger
}

// NewService creates a session Service.
func NewService(c *coach.Coach, repo store.RecordRepo, cfg Config, log zerolog.Logger) *Service {
	if cfg.RecentSessions <= 0 {
		cfg.RecentSessions = stats.DefaultRecentSessions
	}
	return &Service{
		coach:  c,
		repo:   repo,
		badges: badges.NewService(repo),
		cfg:    cfg,
		log:    log,
	}
}

// Start generates the question list and persists a new session.
func (s *Service) Start(ctx context.Context, p Params) (*State, error) {
	p.UserName = strings.TrimSpace(p.UserName)
	if p.UserName == "" {
		return nil, ErrNoUser
	}
	p.Role = strings.TrimSpace(p.Role)

	qs := s.coach.Questions(ctx, prompt.QuestionParams{
		Role:          p.Role,
		Seniority:     p.Seniority,
		InterviewType: p.InterviewType,
		Count:         p.Count,
	})

	id, err := s.repo.CreateSession(ctx, store.NewSession{
		UserName:      p.UserName,
		Role:          p.Role,
		Seniority:     p.Seniority,
		InterviewType: p.InterviewType,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	start := now()
	st := newState(interview.Session{
		ID:            id,
		UserName:      p.UserName,
		Role:          p.Role,
		Seniority:     p.Seniority,
		InterviewType: p.InterviewType,
		Questions:     qs,
		CreatedAt:     start,
	}, start)

	s.log.Info().Int64("session_id", id).Str("user", p.UserName).Int("questions", len(qs)).Msg("session started")
	return st, nil
}

// Submit evaluates an answer to one of the session's questions and
// persists it. Answering the same question again records a new response.
func (s *Service) Submit(ctx context.Context, st *State, questionID int, answer string) (*SubmitResult, error) {
	if st.Phase == PhaseComplete {
		return nil, ErrSessionComplete
	}
	q, ok := st.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}

	ev := s.coach.Evaluate(ctx, prompt.EvaluationParams{
		Question:      q.Text,
		Answer:        answer,
		Role:          st.Session.Role,
		InterviewType: st.Session.InterviewType,
	})

	rid, err := s.repo.LogResponse(ctx, store.ResponseRecord{
		SessionID:    st.Session.ID,
		Question:     q.Text,
		Category:     q.Category,
		Answer:       answer,
		Evaluation:   ev,
		RulesVersion: s.coach.RulesVersion(),
	})
	if err != nil {
		return nil, fmt.Errorf("log response: %w", err)
	}

	st.answered[q.ID] = true
	st.agg.Record(ev)

	s.log.Debug().
		Int64("session_id", st.Session.ID).
		Int("question_id", q.ID).
		Str("source", string(ev.Source)).
		Float64("overall", ev.OverallScore).
		Msg("answer recorded")

	return &SubmitResult{
		ResponseID: rid,
		Question:   q,
		Evaluation: ev,
		Averages:   st.agg.Averages(),
		Answered:   st.Answered(),
		Total:      st.Total(),
	}, nil
}

// Finish closes the session, recomputes the user's stats and awards any
// newly earned badges. Finishing twice returns ErrSessionComplete. A failed
// Finish leaves the session active so it can be finished again.
func (s *Service) Finish(ctx context.Context, st *State) (*Summary, error) {
	if st.Phase == PhaseComplete {
		return nil, ErrSessionComplete
	}

	sum := BuildSummary(st, now())
	user, err := s.UserStats(ctx, st.Session.UserName)
	if err != nil {
		return nil, err
	}
	sum.User = user

	awarded, err := s.badges.Award(ctx, st.Session.UserName, user)
	if err != nil {
		return nil, fmt.Errorf("award badges: %w", err)
	}
	sum.NewBadges = awarded
	st.Phase = PhaseComplete

	s.log.Info().
		Int64("session_id", st.Session.ID).
		Int("answered", sum.Answered).
		Int("new_badges", len(awarded)).
		Msg("session finished")
	return sum, nil
}

// UserStats aggregates every persisted response of the user.
func (s *Service) UserStats(ctx context.Context, userName string) (stats.UserStats, error) {
	rows, err := s.repo.FetchUserHistory(ctx, userName)
	if err != nil {
		return stats.UserStats{}, fmt.Errorf("fetch history: %w", err)
	}
	st := stats.ForUser(stats.GroupSessions(rows), s.cfg.RecentSessions)
	if st.UserName == "" {
		st.UserName = userName
	}
	return st, nil
}

// Tips returns personalized advice for the user based on their stats.
func (s *Service) Tips(ctx context.Context, userName, role string) (interview.Tips, error) {
	st, err := s.UserStats(ctx, userName)
	if err != nil {
		return interview.Tips{}, err
	}
	return s.coach.Tips(ctx, prompt.TipsParams{Role: role, Stats: st}), nil
}

// Achievements lists the user's earned badges in award order.
func (s *Service) Achievements(ctx context.Context, userName string) ([]store.AchievementRecord, error) {
	recs, err := s.repo.Achievements(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return recs, nil
}
