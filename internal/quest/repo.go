package quest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/linyijun92/naruto-rebirth-game/internal/catalog"
	"github.com/linyijun92/naruto-rebirth-game/internal/player"
	"github.com/linyijun92/naruto-rebirth-game/internal/storage"
)

var (
	ErrNotFound         = errors.New("quest not found")
	ErrNotAvailable     = errors.New("quest is not available")
	ErrAlreadyCompleted = errors.New("quest already completed")
	ErrNotCompleted     = errors.New("quest is not completed")
	ErrAlreadyClaimed   = errors.New("reward already claimed")
)

// Repo persists per-player quest state. Completion and claim settlements run
// in one transaction with the ledger credit.
type Repo struct {
	db      *sql.DB
	catalog *catalog.Catalog
}

func NewRepo(db *sql.DB, cat *catalog.Catalog) *Repo {
	return &Repo{db: db, catalog: cat}
}

// SeedForPlayer provisions the player's quest log from the catalog. Re-running
// is a no-op per quest.
func (r *Repo) SeedForPlayer(ctx context.Context, playerID string) error {
	return storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, t := range r.catalog.Quests() {
			_, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO quests (quest_id, player_id, name, description, type,
					currency_reward, experience_reward,
					reward_chakra, reward_ninjutsu, reward_taijutsu, reward_intelligence, reward_speed, reward_luck)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.QuestID, playerID, t.Name, t.Description, t.Type,
				t.Reward.Currency, t.Reward.Experience,
				t.Reward.Chakra, t.Reward.Ninjutsu, t.Reward.Taijutsu,
				t.Reward.Intelligence, t.Reward.Speed, t.Reward.Luck,
			)
			if err != nil {
				return fmt.Errorf("seed quest %s: %w", t.QuestID, err)
			}
		}
		return nil
	})
}

const questColumns = `id, quest_id, player_id, name, description, type, status, claimed,
	currency_reward, experience_reward,
	reward_chakra, reward_ninjutsu, reward_taijutsu, reward_intelligence, reward_speed, reward_luck,
	completed_at, claimed_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuest(row rowScanner) (Quest, error) {
	var q Quest
	err := row.Scan(
		&q.rowID, &q.QuestID, &q.PlayerID, &q.Name, &q.Description, &q.Type, &q.Status, &q.Claimed,
		&q.CurrencyReward, &q.ExperienceReward,
		&q.AttributeRewards.Chakra, &q.AttributeRewards.Ninjutsu, &q.AttributeRewards.Taijutsu,
		&q.AttributeRewards.Intelligence, &q.AttributeRewards.Speed, &q.AttributeRewards.Luck,
		&q.CompletedAt, &q.ClaimedAt, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quest{}, ErrNotFound
		}
		return Quest{}, fmt.Errorf("scan quest: %w", err)
	}
	return q, nil
}

func getQuest(ctx context.Context, tx *sql.Tx, playerID, questID string) (Quest, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+questColumns+` FROM quests WHERE player_id = ? AND quest_id = ?`, playerID, questID)
	return scanQuest(row)
}

// List returns the player's quests, optionally filtered by type, newest first.
func (r *Repo) List(ctx context.Context, playerID, typeFilter string) ([]Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE player_id = ?`
	args := []any{playerID}
	if typeFilter != "" {
		query += ` AND type = ?`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, ListLimit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	defer rows.Close()

	quests := []Quest{}
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}
	return quests, rows.Err()
}

// Accept moves an available quest to in_progress.
func (r *Repo) Accept(ctx context.Context, playerID, questID string) (Quest, error) {
	var q Quest
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := getQuest(ctx, tx, playerID, questID)
		if err != nil {
			return err
		}
		if cur.Status != StatusAvailable {
			return ErrNotAvailable
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE quests SET status = ? WHERE id = ? AND status = ?`,
			StatusInProgress, cur.rowID, StatusAvailable); err != nil {
			return fmt.Errorf("accept quest: %w", err)
		}
		cur.Status = StatusInProgress
		q = cur
		return nil
	})
	if err != nil {
		return Quest{}, err
	}
	return q, nil
}

// Complete settles a quest: status flips to completed and the ledger is
// credited with currency, experience, and attribute rewards in the same
// transaction. The guarded UPDATE makes a second call fail instead of
// double-paying.
func (r *Repo) Complete(ctx context.Context, playerID, questID string) (CompleteResult, error) {
	var res CompleteResult
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := getQuest(ctx, tx, playerID, questID)
		if err != nil {
			return err
		}
		if cur.Status == StatusCompleted {
			return ErrAlreadyCompleted
		}

		now := time.Now().UTC()
		out, err := tx.ExecContext(ctx, `
			UPDATE quests SET status = ?, completed_at = ?
			WHERE id = ? AND status IN (?, ?)`,
			StatusCompleted, now, cur.rowID, StatusAvailable, StatusInProgress)
		if err != nil {
			return fmt.Errorf("complete quest: %w", err)
		}
		affected, err := out.RowsAffected()
		if err != nil {
			return fmt.Errorf("complete quest: %w", err)
		}
		if affected == 0 {
			return ErrAlreadyCompleted
		}

		if err := player.CreditRewards(ctx, tx, playerID,
			cur.CurrencyReward, cur.ExperienceReward, cur.AttributeRewards.asMap()); err != nil {
			return err
		}

		cur.Status = StatusCompleted
		cur.CompletedAt = &now
		res = CompleteResult{
			Quest:             cur,
			CurrencyAwarded:   cur.CurrencyReward,
			ExperienceAwarded: cur.ExperienceReward,
		}
		return nil
	})
	if err != nil {
		return CompleteResult{}, err
	}
	return res, nil
}

// Claim collects the completion reward. Distinct from the completion payout:
// the currency reward is credited again here, matching the original game's
// two-step settlement.
func (r *Repo) Claim(ctx context.Context, playerID, questID string) (ClaimResult, error) {
	var res ClaimResult
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := getQuest(ctx, tx, playerID, questID)
		if err != nil {
			return err
		}
		if cur.Status != StatusCompleted {
			return ErrNotCompleted
		}
		if cur.Claimed {
			return ErrAlreadyClaimed
		}

		now := time.Now().UTC()
		out, err := tx.ExecContext(ctx, `
			UPDATE quests SET claimed = 1, claimed_at = ?
			WHERE id = ? AND status = ? AND claimed = 0`,
			now, cur.rowID, StatusCompleted)
		if err != nil {
			return fmt.Errorf("claim quest: %w", err)
		}
		affected, err := out.RowsAffected()
		if err != nil {
			return fmt.Errorf("claim quest: %w", err)
		}
		if affected == 0 {
			return ErrAlreadyClaimed
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE players SET currency = currency + ?, updated_at = ? WHERE id = ?`,
			cur.CurrencyReward, now, playerID); err != nil {
			return fmt.Errorf("credit claim: %w", err)
		}

		cur.Claimed = true
		cur.ClaimedAt = &now
		res = ClaimResult{Quest: cur, CurrencyAwarded: cur.CurrencyReward}
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}
	return res, nil
}
