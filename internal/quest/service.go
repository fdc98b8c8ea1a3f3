package quest

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// Service validates quest operations and maps storage errors to the API
// taxonomy.
type Service struct {
	repo    *Repo
	logger  *log.Logger
	timeout time.Duration
}

func NewService(repo *Repo, logger *log.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, logger: logger, timeout: timeout}
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// List returns one page of the player's quests, optionally filtered by type.
func (s *Service) List(ctx context.Context, playerID, typeFilter string) ([]Quest, error) {
	switch typeFilter {
	case "", "main", "side", "daily":
	default:
		return nil, httpapi.Validation("type must be one of main, side, daily")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	quests, err := s.repo.List(ctx, playerID, typeFilter)
	if err != nil {
		return nil, httpapi.Internal(err)
	}
	return quests, nil
}

// Accept starts an available quest.
func (s *Service) Accept(ctx context.Context, playerID, questID string) (Quest, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	q, err := s.repo.Accept(ctx, playerID, questID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return Quest{}, httpapi.NotFound("quest not found")
		case errors.Is(err, ErrNotAvailable):
			return Quest{}, httpapi.Precondition("quest is not available")
		default:
			return Quest{}, httpapi.Internal(err)
		}
	}
	return q, nil
}

// Complete settles a quest and pays out its rewards exactly once.
func (s *Service) Complete(ctx context.Context, playerID, questID string) (CompleteResult, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.repo.Complete(ctx, playerID, questID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return CompleteResult{}, httpapi.NotFound("quest not found")
		case errors.Is(err, ErrAlreadyCompleted):
			return CompleteResult{}, httpapi.Precondition("quest already completed")
		default:
			return CompleteResult{}, httpapi.Internal(err)
		}
	}
	return res, nil
}

// Claim collects a completed quest's reward, at most once.
func (s *Service) Claim(ctx context.Context, playerID, questID string) (ClaimResult, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.repo.Claim(ctx, playerID, questID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return ClaimResult{}, httpapi.NotFound("quest not found")
		case errors.Is(err, ErrNotCompleted):
			return ClaimResult{}, httpapi.Precondition("quest is not completed")
		case errors.Is(err, ErrAlreadyClaimed):
			return ClaimResult{}, httpapi.Precondition("reward already claimed")
		default:
			return ClaimResult{}, httpapi.Internal(err)
		}
	}
	return res, nil
}
