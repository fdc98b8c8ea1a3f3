package quest

import "time"

// Quest statuses. Transitions only move forward:
// available -> in_progress -> completed, with claimed as a flag on completed.
const (
	StatusAvailable  = "available"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ListLimit caps one page of quests.
const ListLimit = 20

// Quest is one player's copy of a quest template, with its transition state.
type Quest struct {
	rowID            int64
	QuestID          string           `json:"id"`
	PlayerID         string           `json:"-"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Type             string           `json:"type"`
	Status           string           `json:"status"`
	Claimed          bool             `json:"claimed"`
	CurrencyReward   int              `json:"currencyReward"`
	ExperienceReward int              `json:"experienceReward"`
	AttributeRewards AttributeRewards `json:"attributeRewards"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
	ClaimedAt        *time.Time       `json:"claimedAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// AttributeRewards are the per-stat bumps granted on completion.
type AttributeRewards struct {
	Chakra       int `json:"chakra,omitempty"`
	Ninjutsu     int `json:"ninjutsu,omitempty"`
	Taijutsu     int `json:"taijutsu,omitempty"`
	Intelligence int `json:"intelligence,omitempty"`
	Speed        int `json:"speed,omitempty"`
	Luck         int `json:"luck,omitempty"`
}

func (a AttributeRewards) asMap() map[string]int {
	return map[string]int{
		"chakra":       a.Chakra,
		"ninjutsu":     a.Ninjutsu,
		"taijutsu":     a.Taijutsu,
		"intelligence": a.Intelligence,
		"speed":        a.Speed,
		"luck":         a.Luck,
	}
}

// CompleteResult reports a completion settlement.
type CompleteResult struct {
	Quest             Quest `json:"quest"`
	CurrencyAwarded   int   `json:"currencyAwarded"`
	ExperienceAwarded int   `json:"experienceAwarded"`
}

// ClaimResult reports a reward claim.
type ClaimResult struct {
	Quest           Quest `json:"quest"`
	CurrencyAwarded int   `json:"currencyAwarded"`
}
