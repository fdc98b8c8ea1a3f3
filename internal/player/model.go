package player

import "time"

// Starting values for a freshly registered player.
const (
	StartingLevel           = 1
	StartingExperience      = 0
	StartingThreshold       = 100
	StartingCurrency        = 100
	StartingAttributePoints = 10
	StartingHealth          = 100
	StartingChakra          = 100

	AttributeDefault = 50
	AttributeCap     = 100

	// Each spent attribute point raises the stat by 10, clamped at the cap.
	// The 10:1 gain-to-cost ratio is the intended progression curve.
	GainPerPoint = 10

	// Threshold grows by 20% per level, floored.
	thresholdGrowth = 1.2
)

// Player is the ledger entity: currency, experience, level, attribute points,
// plus the resource pools and stat counters the save snapshots track.
type Player struct {
	ID                    string    `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	Level                 int       `json:"level"`
	Experience            int       `json:"experience"`
	ExperienceToNextLevel int       `json:"experienceToNextLevel"`
	Currency              int       `json:"currency"`
	AttributePoints       int       `json:"attributePoints"`
	Health                int       `json:"health"`
	MaxHealth             int       `json:"maxHealth"`
	Chakra                int       `json:"chakra"`
	MaxChakra             int       `json:"maxChakra"`
	MissionsCompleted     int       `json:"missionsCompleted"`
	ItemsCollected        int       `json:"itemsCollected"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Attributes is the six-stat record, exactly one per player.
type Attributes struct {
	Chakra       int `json:"chakra"`
	Ninjutsu     int `json:"ninjutsu"`
	Taijutsu     int `json:"taijutsu"`
	Intelligence int `json:"intelligence"`
	Speed        int `json:"speed"`
	Luck         int `json:"luck"`
}

// AttributeNames lists the recognized stats in canonical order.
var AttributeNames = []string{"chakra", "ninjutsu", "taijutsu", "intelligence", "speed", "luck"}

// ValidAttribute reports whether name is one of the six stats.
func ValidAttribute(name string) bool {
	for _, n := range AttributeNames {
		if n == name {
			return true
		}
	}
	return false
}

// NextThreshold applies the level-up growth curve to a threshold.
func NextThreshold(threshold int) int {
	return int(float64(threshold) * thresholdGrowth)
}

func defaultAttributes() Attributes {
	return Attributes{
		Chakra:       AttributeDefault,
		Ninjutsu:     AttributeDefault,
		Taijutsu:     AttributeDefault,
		Intelligence: AttributeDefault,
		Speed:        AttributeDefault,
		Luck:         AttributeDefault,
	}
}

// ExperienceResult reports an AddExperience settlement.
type ExperienceResult struct {
	PreviousExperience    int  `json:"previousExperience"`
	AddedExperience       int  `json:"addedExperience"`
	NewExperience         int  `json:"newExperience"`
	PreviousLevel         int  `json:"previousLevel"`
	NewLevel              int  `json:"newLevel"`
	LeveledUp             bool `json:"leveledUp"`
	ExperienceToNextLevel int  `json:"experienceToNextLevel"`
}

// LevelUpResult reports an explicit level-up.
type LevelUpResult struct {
	PreviousLevel         int `json:"previousLevel"`
	NewLevel              int `json:"newLevel"`
	Experience            int `json:"experience"`
	ExperienceToNextLevel int `json:"experienceToNextLevel"`
}

// UpgradeResult reports an attribute upgrade settlement.
type UpgradeResult struct {
	Attribute  string `json:"attribute"`
	OldValue   int    `json:"oldValue"`
	NewValue   int    `json:"newValue"`
	Increase   int    `json:"increase"`
	PointsUsed int    `json:"pointsUsed"`
	NewPoints  int    `json:"newPoints"`
}
