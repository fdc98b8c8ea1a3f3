package save

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("save not found")
	ErrNotOwned = errors.New("save belongs to another player")
)

// Repo persists save snapshots. Ownership is enforced here: every read or
// delete by id verifies the caller against the stored owner.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func newID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return "save_" + hex.EncodeToString(b[:])
}

// Create stores a new snapshot.
func (r *Repo) Create(ctx context.Context, playerID, saveName string, snapshot []byte) (Save, error) {
	now := time.Now().UTC()
	s := Save{
		ID:        newID(),
		PlayerID:  playerID,
		SaveName:  saveName,
		Snapshot:  snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saves (id, player_id, save_name, snapshot, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.PlayerID, s.SaveName, string(snapshot), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return Save{}, fmt.Errorf("insert save: %w", err)
	}
	return s, nil
}

// List returns the player's saves, newest-updated first, capped.
func (r *Repo) List(ctx context.Context, playerID string) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, save_name, created_at, updated_at FROM saves
		WHERE player_id = ? ORDER BY updated_at DESC, id DESC LIMIT ?`, playerID, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	saves := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.SaveName, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		saves = append(saves, s)
	}
	return saves, rows.Err()
}

// get fetches by id and checks ownership.
func (r *Repo) get(ctx context.Context, playerID, saveID string) (Save, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, player_id, save_name, snapshot, created_at, updated_at
		FROM saves WHERE id = ?`, saveID)
	var s Save
	var snapshot string
	err := row.Scan(&s.ID, &s.PlayerID, &s.SaveName, &snapshot, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Save{}, ErrNotFound
		}
		return Save{}, fmt.Errorf("scan save: %w", err)
	}
	if s.PlayerID != playerID {
		return Save{}, ErrNotOwned
	}
	s.Snapshot = []byte(snapshot)
	return s, nil
}

// Load returns the stored snapshot unmodified.
func (r *Repo) Load(ctx context.Context, playerID, saveID string) (Save, error) {
	return r.get(ctx, playerID, saveID)
}

// Update replaces the snapshot and bumps the updated timestamp.
func (r *Repo) Update(ctx context.Context, playerID, saveID string, snapshot []byte) (Save, error) {
	s, err := r.get(ctx, playerID, saveID)
	if err != nil {
		return Save{}, err
	}
	s.Snapshot = snapshot
	s.UpdatedAt = time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`UPDATE saves SET snapshot = ?, updated_at = ? WHERE id = ?`,
		string(snapshot), s.UpdatedAt, saveID)
	if err != nil {
		return Save{}, fmt.Errorf("update save: %w", err)
	}
	return s, nil
}

// Delete removes the record after the ownership check.
func (r *Repo) Delete(ctx context.Context, playerID, saveID string) error {
	if _, err := r.get(ctx, playerID, saveID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, saveID); err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	return nil
}
