package save

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// Service validates save operations and maps storage errors to the API
// taxonomy. Ownership mismatches surface as permission errors regardless of
// whether the save exists.
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

func validateName(saveName string) error {
	saveName = strings.TrimSpace(saveName)
	if saveName == "" {
		return httpapi.Validation("save name is required")
	}
	if len([]rune(saveName)) > MaxNameLength {
		return httpapi.Newf(httpapi.CodeValidation, "save name must be at most %d characters", MaxNameLength)
	}
	return nil
}

func mapSaveErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httpapi.NotFound("save not found")
	case errors.Is(err, ErrNotOwned):
		return httpapi.Permission("save belongs to another player")
	default:
		return httpapi.Internal(err)
	}
}

// Create stores a named snapshot for the player.
func (s *Service) Create(ctx context.Context, playerID, saveName string, snapshot json.RawMessage) (Save, error) {
	if err := validateName(saveName); err != nil {
		return Save{}, err
	}
	if len(snapshot) == 0 {
		return Save{}, httpapi.Validation("save data is required")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	created, err := s.repo.Create(ctx, playerID, strings.TrimSpace(saveName), snapshot)
	if err != nil {
		return Save{}, httpapi.Internal(err)
	}
	return created, nil
}

// List returns the player's saves, newest-updated first.
func (s *Service) List(ctx context.Context, playerID string) ([]Summary, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	saves, err := s.repo.List(ctx, playerID)
	if err != nil {
		return nil, httpapi.Internal(err)
	}
	return saves, nil
}

// Load returns a snapshot the player owns, byte-identical to what was stored.
func (s *Service) Load(ctx context.Context, playerID, saveID string) (Save, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	loaded, err := s.repo.Load(ctx, playerID, saveID)
	if err != nil {
		return Save{}, mapSaveErr(err)
	}
	return loaded, nil
}

// Update replaces a snapshot the player owns.
func (s *Service) Update(ctx context.Context, playerID, saveID string, snapshot json.RawMessage) (Save, error) {
	if len(snapshot) == 0 {
		return Save{}, httpapi.Validation("save data is required")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	updated, err := s.repo.Update(ctx, playerID, saveID, snapshot)
	if err != nil {
		return Save{}, mapSaveErr(err)
	}
	return updated, nil
}

// Delete removes a snapshot the player owns.
func (s *Service) Delete(ctx context.Context, playerID, saveID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.repo.Delete(ctx, playerID, saveID); err != nil {
		return mapSaveErr(err)
	}
	return nil
}
