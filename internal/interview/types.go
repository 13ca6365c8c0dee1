// Package interview holds the domain types shared across the practice pipeline.
package interview

import (
	"strings"
	"time"
)

// Category classifies what a question assesses.
type Category string

const (
	CategoryBehavioral  Category = "behavioral"
	CategoryTechnical   Category = "technical"
	CategorySituational Category = "situational"
	CategoryGeneral     Category = "general"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{CategoryBehavioral, CategoryTechnical, CategorySituational, CategoryGeneral}
}

// ParseCategory maps free text onto a Category. Unknown values map to
// CategoryGeneral.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "behavioral", "behavioural", "behavior", "hr":
		return CategoryBehavioral
	case "technical", "tech", "coding", "system design":
		return CategoryTechnical
	case "situational", "scenario", "case":
		return CategorySituational
	default:
		return CategoryGeneral
	}
}

// Difficulty is the relative difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns difficulties in presentation order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty maps free text onto a Difficulty. Unknown values map to
// DifficultyMedium.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "beginner", "low", "1":
		return DifficultyEasy
	case "hard", "difficult", "advanced", "high", "3":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Question is a single interview question. Questions are immutable once
// created and their order within a session is the presentation order.
type Question struct {
	ID         int        `json:"id"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Text       string     `json:"text"`
}

// Answer is the learner's free-text reply to a question.
type Answer struct {
	QuestionID  int       `json:"question_id"`
	Text        string    `json:"text"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Source records which path produced a result.
type Source string

const (
	SourceService  Source = "service"
	SourceFallback Source = "fallback"
)

// Evaluation is the structured critique of one Answer.
//
// All four scores lie in [0,100]. OverallScore is supplied independently and
// is not required to equal the mean of the other three.
type Evaluation struct {
	ClarityScore     float64  `json:"clarity_score"`
	ConfidenceScore  float64  `json:"confidence_score"`
	ContentScore     float64  `json:"content_score"`
	OverallScore     float64  `json:"overall_score"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	ImprovedAnswer   string   `json:"improved_answer"`
	Tips             []string `json:"tips"`
	DetailedFeedback string   `json:"detailed_feedback"`
	SoftSkills       []string `json:"soft_skills"`
	Source           Source   `json:"source"`
}

// Scores returns the four score dimensions in canonical order:
// clarity, confidence, content, overall.
func (e Evaluation) Scores() [4]float64 {
	return [4]float64{e.ClarityScore, e.ConfidenceScore, e.ContentScore, e.OverallScore}
}

// Tips is the personalized improvement advice for a user.
type Tips struct {
	Tips                []string `json:"tips"`
	FocusAreas          []string `json:"focus_areas"`
	MotivationalMessage string   `json:"motivational_message"`
	Source              Source   `json:"source"`
}

// Session is one mock interview. It owns its questions.
type Session struct {
	ID            int64      `json:"id"`
	UserName      string     `json:"user_name"`
	Role          string     `json:"role"`
	Seniority     string     `json:"seniority"`
	InterviewType string     `json:"interview_type"`
	Questions     []Question `json:"questions"`
	CreatedAt     time.Time  `json:"created_at"`
}

const (
	// DefaultQuestionCount is used when a non-positive count is requested.
	DefaultQuestionCount = 5
	// MaxQuestionCount caps a single session's question list.
	MaxQuestionCount = 20
)

// ClampQuestionCount normalizes a requested question count.
func ClampQuestionCount(n int) int {
	if n <= 0 {
		return DefaultQuestionCount
	}
	if n > MaxQuestionCount {
		return MaxQuestionCount
	}
	return n
}
