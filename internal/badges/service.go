package badges

import (
	"context"
	"fmt"

	"github.com/abhisek/prepcoach/internal/stats"
	"github.com/abhisek/prepcoach/internal/store"
)

// Service awards badges and persists them.
type Service struct {
	repo store.RecordRepo
}

// NewService creates a badge Service.
func NewService(repo store.RecordRepo) *Service {
	return &Service{repo: repo}
}

// Held returns the badges the user already holds.
func (s *Service) Held(ctx context.Context, userID string) (map[BadgeID]bool, error) {
	recs, err := s.repo.Achievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	held := make(map[BadgeID]bool, len(recs))
	for _, r := range recs {
		held[BadgeID(r.BadgeID)] = true
	}
	return held, nil
}

// Award evaluates st against the user's held badges and persists any new
// ones. It returns only badges that were newly inserted.
func (s *Service) Award(ctx context.Context, userID string, st stats.UserStats) ([]BadgeID, error) {
	held, err := s.Held(ctx, userID)
	if err != nil {
		return nil, err
	}

	var awarded []BadgeID
	for _, id := range Evaluate(st, held) {
		inserted, err := s.repo.AwardIfAbsent(ctx, userID, string(id))
		if err != nil {
			return awarded, fmt.Errorf("award %s: %w", id, err)
		}
		if inserted {
			awarded = append(awarded, id)
		}
	}
	return awarded, nil
}
