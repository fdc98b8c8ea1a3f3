package player

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/linyijun92/naruto-rebirth-game/internal/auth"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// QuestSeeder provisions a new player's quest log. Implemented by quest.Repo.
type QuestSeeder interface {
	SeedForPlayer(ctx context.Context, playerID string) error
}

// Service wraps the ledger with validation, credential handling, and the
// bounded persistence timeout.
type Service struct {
	repo    *Repo
	tokens  *auth.TokenIssuer
	quests  QuestSeeder
	logger  *log.Logger
	timeout time.Duration
}

func NewService(repo *Repo, tokens *auth.TokenIssuer, quests QuestSeeder, logger *log.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, tokens: tokens, quests: quests, logger: logger, timeout: timeout}
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// PlayerWithAttributes is the common read shape for player endpoints.
type PlayerWithAttributes struct {
	Player
	Attributes Attributes `json:"attributes"`
}

// Register creates a player with the fixed starting ledger and a default
// attribute record, then seeds the quest log.
func (s *Service) Register(ctx context.Context, username, email, password string) (Player, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return Player{}, httpapi.Validation("username, email, and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Player{}, httpapi.Internal(err)
	}

	now := time.Now().UTC()
	p := Player{
		ID:                    NewID(),
		Username:              username,
		Email:                 email,
		PasswordHash:          string(hash),
		Level:                 StartingLevel,
		Experience:            StartingExperience,
		ExperienceToNextLevel: StartingThreshold,
		Currency:              StartingCurrency,
		AttributePoints:       StartingAttributePoints,
		Health:                StartingHealth,
		MaxHealth:             StartingHealth,
		Chakra:                StartingChakra,
		MaxChakra:             StartingChakra,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.repo.Create(ctx, p); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUsername):
			return Player{}, httpapi.Conflict("username already exists")
		case errors.Is(err, ErrDuplicateEmail):
			return Player{}, httpapi.Conflict("email already exists")
		default:
			return Player{}, httpapi.Internal(err)
		}
	}

	if s.quests != nil {
		if err := s.quests.SeedForPlayer(ctx, p.ID); err != nil {
			// The account exists; an empty quest log is recoverable on next boot.
			s.logger.Printf(`{"level":"error","msg":"quest_seed_failed","player_id":%q,"error":%q}`, p.ID, err.Error())
		}
	}
	return p, nil
}

// Login verifies credentials and issues a bearer token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (PlayerWithAttributes, string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return PlayerWithAttributes{}, "", httpapi.Validation("username and password are required")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PlayerWithAttributes{}, "", httpapi.Authentication("invalid username or password")
		}
		return PlayerWithAttributes{}, "", httpapi.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return PlayerWithAttributes{}, "", httpapi.Authentication("invalid username or password")
	}

	attrs, err := s.repo.GetAttributes(ctx, p.ID)
	if err != nil {
		return PlayerWithAttributes{}, "", httpapi.Internal(err)
	}

	token, err := s.tokens.Issue(p.ID, p.Username)
	if err != nil {
		return PlayerWithAttributes{}, "", httpapi.Internal(err)
	}
	return PlayerWithAttributes{Player: p, Attributes: attrs}, token, nil
}

// Get returns a player with its attribute record.
func (s *Service) Get(ctx context.Context, id string) (PlayerWithAttributes, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PlayerWithAttributes{}, httpapi.NotFound("player not found")
		}
		return PlayerWithAttributes{}, httpapi.Internal(err)
	}
	attrs, err := s.repo.GetAttributes(ctx, id)
	if err != nil {
		return PlayerWithAttributes{}, httpapi.Internal(err)
	}
	return PlayerWithAttributes{Player: p, Attributes: attrs}, nil
}

// AddExperience credits experience, carrying level-ups across thresholds.
func (s *Service) AddExperience(ctx context.Context, playerID string, amount int) (ExperienceResult, error) {
	if amount <= 0 {
		return ExperienceResult{}, httpapi.Validation("experience amount must be positive")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.repo.AddExperience(ctx, playerID, amount)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ExperienceResult{}, httpapi.NotFound("player not found")
		}
		return ExperienceResult{}, httpapi.Internal(err)
	}
	return res, nil
}

// LevelUp advances one level when enough experience is banked.
func (s *Service) LevelUp(ctx context.Context, playerID string) (LevelUpResult, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.repo.LevelUp(ctx, playerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return LevelUpResult{}, httpapi.NotFound("player not found")
		case errors.Is(err, ErrInsufficientExperience):
			return LevelUpResult{}, httpapi.Precondition("insufficient experience to level up")
		default:
			return LevelUpResult{}, httpapi.Internal(err)
		}
	}
	return res, nil
}

// Upgrade spends attribute points on one of the six stats and returns the new
// ledger state alongside the upgrade summary.
func (s *Service) Upgrade(ctx context.Context, playerID, attribute string, points int) (UpgradeResult, PlayerWithAttributes, error) {
	if !ValidAttribute(attribute) {
		return UpgradeResult{}, PlayerWithAttributes{}, httpapi.Validation("unknown attribute")
	}
	if points < 1 {
		return UpgradeResult{}, PlayerWithAttributes{}, httpapi.Validation("amount must be at least 1")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.repo.UpgradeAttribute(ctx, playerID, attribute, points)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return UpgradeResult{}, PlayerWithAttributes{}, httpapi.NotFound("player not found")
		case errors.Is(err, ErrAttributeMaxed):
			return UpgradeResult{}, PlayerWithAttributes{}, httpapi.Precondition("attribute already at maximum")
		case errors.Is(err, ErrInsufficientPoints):
			return UpgradeResult{}, PlayerWithAttributes{}, httpapi.Precondition("insufficient attribute points")
		default:
			return UpgradeResult{}, PlayerWithAttributes{}, httpapi.Internal(err)
		}
	}

	full, err := s.Get(ctx, playerID)
	if err != nil {
		return UpgradeResult{}, PlayerWithAttributes{}, err
	}
	return res, full, nil
}
