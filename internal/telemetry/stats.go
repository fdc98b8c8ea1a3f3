package telemetry

import "time"

// Stats aggregates gameplay events for balance tuning: how often quests settle
// against how often the shop moves inventory.
type Stats struct {
	Since            string            `json:"since"`
	EventCounts      map[EventType]int `json:"eventCounts"`
	Registrations    int               `json:"registrations"`
	Logins           int               `json:"logins"`
	QuestCompletions int               `json:"questCompletions"`
	RewardClaims     int               `json:"rewardClaims"`
	Purchases        int               `json:"purchases"`
	Sales            int               `json:"sales"`
	ClaimRate        float64           `json:"claimRate"`
}

// Summarize folds events into Stats.
func Summarize(events []Event, since time.Time) Stats {
	stats := Stats{
		Since:       since.UTC().Format(time.RFC3339),
		EventCounts: make(map[EventType]int),
	}

	for _, e := range events {
		stats.EventCounts[e.Type]++
		switch e.Type {
		case EventPlayerRegistered:
			stats.Registrations++
		case EventPlayerLogin:
			stats.Logins++
		case EventQuestCompleted:
			stats.QuestCompletions++
		case EventRewardClaimed:
			stats.RewardClaims++
		case EventItemPurchased:
			stats.Purchases++
		case EventItemSold:
			stats.Sales++
		}
	}

	if stats.QuestCompletions > 0 {
		stats.ClaimRate = float64(stats.RewardClaims) / float64(stats.QuestCompletions)
	}
	return stats
}
