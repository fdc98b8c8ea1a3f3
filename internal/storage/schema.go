package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent so Migrate can run
// on every boot.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
			experience INTEGER NOT NULL DEFAULT 0 CHECK (experience >= 0),
			experience_to_next_level INTEGER NOT NULL DEFAULT 100 CHECK (experience_to_next_level > 0),
			currency INTEGER NOT NULL DEFAULT 100 CHECK (currency >= 0),
			attribute_points INTEGER NOT NULL DEFAULT 10 CHECK (attribute_points >= 0),
			health INTEGER NOT NULL DEFAULT 100,
			max_health INTEGER NOT NULL DEFAULT 100,
			chakra INTEGER NOT NULL DEFAULT 100,
			max_chakra INTEGER NOT NULL DEFAULT 100,
			missions_completed INTEGER NOT NULL DEFAULT 0,
			items_collected INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS player_attributes (
			player_id TEXT PRIMARY KEY REFERENCES players(id),
			chakra INTEGER NOT NULL DEFAULT 50,
			ninjutsu INTEGER NOT NULL DEFAULT 50,
			taijutsu INTEGER NOT NULL DEFAULT 50,
			intelligence INTEGER NOT NULL DEFAULT 50,
			speed INTEGER NOT NULL DEFAULT 50,
			luck INTEGER NOT NULL DEFAULT 50
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quest_id TEXT NOT NULL,
			player_id TEXT NOT NULL REFERENCES players(id),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL CHECK (type IN ('main','side','daily')),
			status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available','in_progress','completed')),
			claimed INTEGER NOT NULL DEFAULT 0,
			currency_reward INTEGER NOT NULL DEFAULT 0,
			experience_reward INTEGER NOT NULL DEFAULT 0,
			reward_chakra INTEGER NOT NULL DEFAULT 0,
			reward_ninjutsu INTEGER NOT NULL DEFAULT 0,
			reward_taijutsu INTEGER NOT NULL DEFAULT 0,
			reward_intelligence INTEGER NOT NULL DEFAULT 0,
			reward_speed INTEGER NOT NULL DEFAULT 0,
			reward_luck INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			claimed_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (player_id, quest_id)
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL REFERENCES players(id),
			item_id TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			equipped INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL REFERENCES players(id),
			save_name TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_player_created ON quests(player_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_player_item ON inventory(player_id, item_id);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_player_updated ON saves(player_id, updated_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
