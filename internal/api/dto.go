package api

import (
	"time"

	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/stats"
)

// StartSessionRequest starts a practice session.
type StartSessionRequest struct {
	UserName      string `json:"user_name" binding:"required"`
	Role          string `json:"role"`
	Seniority     string `json:"seniority"`
	InterviewType string `json:"interview_type"`
	Count         int    `json:"count" binding:"min=0"`
}

// SubmitAnswerRequest submits one answer.
type SubmitAnswerRequest struct {
	QuestionID int    `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

// QuestionDTO is a question as presented to the client.
type QuestionDTO struct {
	ID         int                  `json:"id"`
	Category   interview.Category   `json:"category"`
	Difficulty interview.Difficulty `json:"difficulty"`
	Text       string               `json:"text"`
}

// SessionResponse describes a session and its progress.
type SessionResponse struct {
	SessionID      int64         `json:"session_id"`
	UserName       string        `json:"user_name"`
	Role           string        `json:"role"`
	InterviewType  string        `json:"interview_type"`
	Questions      []QuestionDTO `json:"questions"`
	NextQuestionID int           `json:"next_question_id,omitempty"`
	Answered       int           `json:"answered"`
}

// EvaluationDTO is the critique of one answer.
type EvaluationDTO struct {
	ClarityScore     float64          `json:"clarity_score"`
	ConfidenceScore  float64          `json:"confidence_score"`
	ContentScore     float64          `json:"content_score"`
	OverallScore     float64          `json:"overall_score"`
	Strengths        []string         `json:"strengths"`
	Weaknesses       []string         `json:"weaknesses"`
	ImprovedAnswer   string           `json:"improved_answer"`
	Tips             []string         `json:"tips"`
	DetailedFeedback string           `json:"detailed_feedback"`
	SoftSkills       []string         `json:"soft_skills"`
	Source           interview.Source `json:"source"`
}

// AnswerResponse is returned for a submitted answer.
type AnswerResponse struct {
	ResponseID int64          `json:"response_id"`
	QuestionID int            `json:"question_id"`
	Evaluation EvaluationDTO  `json:"evaluation"`
	Averages   stats.Averages `json:"averages"`
	Answered   int            `json:"answered"`
	Total      int            `json:"total"`
}

// BadgeDTO is an earned or newly awarded badge.
type BadgeDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Description string     `json:"description"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

// FinishResponse summarizes a finished session.
type FinishResponse struct {
	SessionID   int64          `json:"session_id"`
	Answered    int            `json:"answered"`
	Total       int            `json:"total"`
	Evaluations int            `json:"evaluations"`
	Averages    stats.Averages `json:"averages"`
	BestOverall float64        `json:"best_overall"`
	DurationMs  int64          `json:"duration_ms"`
	Badges      []BadgeDTO     `json:"new_badges"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
