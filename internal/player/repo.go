package player

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linyijun92/naruto-rebirth-game/internal/storage"
)

var (
	ErrNotFound               = errors.New("player not found")
	ErrDuplicateUsername      = errors.New("username already exists")
	ErrDuplicateEmail         = errors.New("email already exists")
	ErrInsufficientPoints     = errors.New("insufficient attribute points")
	ErrAttributeMaxed         = errors.New("attribute already at maximum")
	ErrUnknownAttribute       = errors.New("unknown attribute")
	ErrInsufficientExperience = errors.New("insufficient experience to level up")
)

// attrColumns whitelists attribute names to their columns. Attribute names
// never reach SQL text any other way.
var attrColumns = map[string]string{
	"chakra":       "chakra",
	"ninjutsu":     "ninjutsu",
	"taijutsu":     "taijutsu",
	"intelligence": "intelligence",
	"speed":        "speed",
	"luck":         "luck",
}

// Repo persists players and their attribute records. Every settlement that
// reads a balance and writes it back runs inside one transaction with a
// guarded conditional UPDATE.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// NewID mints a player id.
func NewID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return "player_" + hex.EncodeToString(b[:])
}

const playerColumns = `id, username, email, password_hash, level, experience, experience_to_next_level,
	currency, attribute_points, health, max_health, chakra, max_chakra,
	missions_completed, items_collected, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (Player, error) {
	var p Player
	err := row.Scan(
		&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.Level, &p.Experience, &p.ExperienceToNextLevel,
		&p.Currency, &p.AttributePoints, &p.Health, &p.MaxHealth, &p.Chakra, &p.MaxChakra,
		&p.MissionsCompleted, &p.ItemsCollected, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Player{}, ErrNotFound
		}
		return Player{}, fmt.Errorf("scan player: %w", err)
	}
	return p, nil
}

// Create inserts the player and its attribute record in one transaction.
func (r *Repo) Create(ctx context.Context, p Player) error {
	return storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO players (id, username, email, password_hash, level, experience, experience_to_next_level,
				currency, attribute_points, health, max_health, chakra, max_chakra, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Username, p.Email, p.PasswordHash, p.Level, p.Experience, p.ExperienceToNextLevel,
			p.Currency, p.AttributePoints, p.Health, p.MaxHealth, p.Chakra, p.MaxChakra, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return mapUniqueViolation(err)
		}
		a := defaultAttributes()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_attributes (player_id, chakra, ninjutsu, taijutsu, intelligence, speed, luck)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, a.Chakra, a.Ninjutsu, a.Taijutsu, a.Intelligence, a.Speed, a.Luck,
		)
		if err != nil {
			return fmt.Errorf("insert attributes: %w", err)
		}
		return nil
	})
}

func mapUniqueViolation(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "players.username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "players.email"):
		return ErrDuplicateEmail
	default:
		return fmt.Errorf("insert player: %w", err)
	}
}

// Get returns a player by id.
func (r *Repo) Get(ctx context.Context, id string) (Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	return scanPlayer(row)
}

// GetByUsername returns a player by exact username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE username = ?`, username)
	return scanPlayer(row)
}

// GetAttributes returns the player's six-stat record.
func (r *Repo) GetAttributes(ctx context.Context, playerID string) (Attributes, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chakra, ninjutsu, taijutsu, intelligence, speed, luck
		FROM player_attributes WHERE player_id = ?`, playerID)
	var a Attributes
	if err := row.Scan(&a.Chakra, &a.Ninjutsu, &a.Taijutsu, &a.Intelligence, &a.Speed, &a.Luck); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attributes{}, ErrNotFound
		}
		return Attributes{}, fmt.Errorf("scan attributes: %w", err)
	}
	return a, nil
}

// AddExperience credits experience and applies level-ups. Overflow past
// several thresholds carries: the level keeps incrementing until experience
// sits below the (compounded) threshold.
func (r *Repo) AddExperience(ctx context.Context, playerID string, amount int) (ExperienceResult, error) {
	var res ExperienceResult
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := scanPlayer(tx.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, playerID))
		if err != nil {
			return err
		}

		res.PreviousExperience = p.Experience
		res.AddedExperience = amount
		res.PreviousLevel = p.Level

		newExperience := p.Experience + amount
		level := p.Level
		threshold := p.ExperienceToNextLevel
		for newExperience >= threshold {
			level++
			threshold = NextThreshold(threshold)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE players
			SET experience = ?, level = ?, experience_to_next_level = ?, updated_at = ?
			WHERE id = ?`,
			newExperience, level, threshold, time.Now().UTC(), playerID,
		)
		if err != nil {
			return fmt.Errorf("update experience: %w", err)
		}

		res.NewExperience = newExperience
		res.NewLevel = level
		res.LeveledUp = level > p.Level
		res.ExperienceToNextLevel = threshold
		return nil
	})
	if err != nil {
		return ExperienceResult{}, err
	}
	return res, nil
}

// LevelUp advances one level when the threshold is met.
func (r *Repo) LevelUp(ctx context.Context, playerID string) (LevelUpResult, error) {
	var res LevelUpResult
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := scanPlayer(tx.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, playerID))
		if err != nil {
			return err
		}
		if p.Experience < p.ExperienceToNextLevel {
			return ErrInsufficientExperience
		}

		newThreshold := NextThreshold(p.ExperienceToNextLevel)
		_, err = tx.ExecContext(ctx, `
			UPDATE players SET level = level + 1, experience_to_next_level = ?, updated_at = ? WHERE id = ?`,
			newThreshold, time.Now().UTC(), playerID,
		)
		if err != nil {
			return fmt.Errorf("update level: %w", err)
		}

		res = LevelUpResult{
			PreviousLevel:         p.Level,
			NewLevel:              p.Level + 1,
			Experience:            p.Experience,
			ExperienceToNextLevel: newThreshold,
		}
		return nil
	})
	if err != nil {
		return LevelUpResult{}, err
	}
	return res, nil
}

// UpgradeAttribute spends attribute points on one stat. The point deduction is
// a guarded UPDATE so two concurrent upgrades cannot both spend the same
// points.
func (r *Repo) UpgradeAttribute(ctx context.Context, playerID, attribute string, points int) (UpgradeResult, error) {
	col, ok := attrColumns[attribute]
	if !ok {
		return UpgradeResult{}, ErrUnknownAttribute
	}

	var res UpgradeResult
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var current int
		row := tx.QueryRowContext(ctx, `SELECT `+col+` FROM player_attributes WHERE player_id = ?`, playerID)
		if err := row.Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("scan attribute: %w", err)
		}
		if current >= AttributeCap {
			return ErrAttributeMaxed
		}

		out, err := tx.ExecContext(ctx, `
			UPDATE players
			SET attribute_points = attribute_points - ?, updated_at = ?
			WHERE id = ? AND attribute_points >= ?`,
			points, time.Now().UTC(), playerID, points,
		)
		if err != nil {
			return fmt.Errorf("spend points: %w", err)
		}
		affected, err := out.RowsAffected()
		if err != nil {
			return fmt.Errorf("spend points: %w", err)
		}
		if affected == 0 {
			if _, getErr := scanPlayer(tx.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, playerID)); getErr != nil {
				return getErr
			}
			return ErrInsufficientPoints
		}

		newValue := current + points*GainPerPoint
		if newValue > AttributeCap {
			newValue = AttributeCap
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE player_attributes SET `+col+` = ? WHERE player_id = ?`, newValue, playerID); err != nil {
			return fmt.Errorf("update attribute: %w", err)
		}

		var remaining int
		if err := tx.QueryRowContext(ctx, `SELECT attribute_points FROM players WHERE id = ?`, playerID).Scan(&remaining); err != nil {
			return fmt.Errorf("read points: %w", err)
		}

		res = UpgradeResult{
			Attribute:  attribute,
			OldValue:   current,
			NewValue:   newValue,
			Increase:   newValue - current,
			PointsUsed: points,
			NewPoints:  remaining,
		}
		return nil
	})
	if err != nil {
		return UpgradeResult{}, err
	}
	return res, nil
}

// CreditRewards applies a quest settlement to the ledger inside the caller's
// transaction: currency, experience (with level carry), attribute bumps
// clamped at the cap, and the missions counter.
func CreditRewards(ctx context.Context, tx *sql.Tx, playerID string, currency, experience int, attrs map[string]int) error {
	p, err := scanPlayer(tx.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, playerID))
	if err != nil {
		return err
	}

	newExperience := p.Experience + experience
	level := p.Level
	threshold := p.ExperienceToNextLevel
	for newExperience >= threshold {
		level++
		threshold = NextThreshold(threshold)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE players
		SET currency = currency + ?, experience = ?, level = ?, experience_to_next_level = ?,
			missions_completed = missions_completed + 1, updated_at = ?
		WHERE id = ?`,
		currency, newExperience, level, threshold, time.Now().UTC(), playerID,
	)
	if err != nil {
		return fmt.Errorf("credit rewards: %w", err)
	}

	for name, add := range attrs {
		if add <= 0 {
			continue
		}
		col, ok := attrColumns[name]
		if !ok {
			return ErrUnknownAttribute
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE player_attributes
			SET `+col+` = MIN(`+col+` + ?, ?)
			WHERE player_id = ?`, add, AttributeCap, playerID)
		if err != nil {
			return fmt.Errorf("credit attribute %s: %w", name, err)
		}
	}
	return nil
}
