// Package fallback produces questions, evaluations and tips entirely
// offline. Output scales with observable signal in the input and always
// satisfies the same shape as service-produced results, with Source
// fallback. Nothing here fails or calls the generation service.
package fallback

import (
	"github.com/abhisek/prepcoach/internal/consistency"
)

// Synthesizer is the offline generator. It is safe for concurrent use.
type Synthesizer struct {
	bank *Bank
}

var _ consistency.Backfiller = (*Synthesizer)(nil)

// New returns a Synthesizer over the embedded question bank.
func New() *Synthesizer {
	return NewWithBank(DefaultBank())
}

// NewWithBank returns a Synthesizer over a custom bank. b must come from
// ParseBank.
func NewWithBank(b *Bank) *Synthesizer {
	return &Synthesizer{bank: b}
}

// Roles lists the roles with curated offline questions.
func (s *Synthesizer) Roles() []string { return s.bank.RoleNames() }

// ImprovedAnswer implements consistency.Backfiller.
func (s *Synthesizer) ImprovedAnswer(in consistency.EvalInput) string {
	return ModelAnswer(in.Question, in.Role)
}

// Strengths implements consistency.Backfiller.
func (s *Synthesizer) Strengths(in consistency.EvalInput) []string {
	return strengthsFor(classify(in.Answer), analyze(in.Answer))
}

// Tips implements consistency.Backfiller.
func (s *Synthesizer) Tips(in consistency.EvalInput) []string {
	return tipsFor(classify(in.Answer))
}

// Feedback implements consistency.Backfiller.
func (s *Synthesizer) Feedback(in consistency.EvalInput) string {
	return feedbackFor(classify(in.Answer))
}
