package save

import (
	"encoding/json"
	"time"
)

// Limits on save records.
const (
	MaxNameLength = 50
	ListLimit     = 50
)

// Save is a named, timestamped snapshot of a player's progress, owned
// exclusively by that player. The snapshot is stored verbatim.
type Save struct {
	ID        string          `json:"id"`
	PlayerID  string          `json:"playerId"`
	SaveName  string          `json:"saveName"`
	Snapshot  json.RawMessage `json:"saveData"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Summary is the list shape: everything but the snapshot payload.
type Summary struct {
	ID        string    `json:"id"`
	SaveName  string    `json:"saveName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
