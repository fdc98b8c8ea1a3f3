package telemetry

import "time"

// EventType tags one gameplay event.
type EventType string

const (
	EventPlayerRegistered EventType = "player_registered"
	EventPlayerLogin      EventType = "player_login"
	EventAttributeUpgrade EventType = "attribute_upgrade"
	EventLevelUp          EventType = "level_up"
	EventQuestAccepted    EventType = "quest_accepted"
	EventQuestCompleted   EventType = "quest_completed"
	EventRewardClaimed    EventType = "reward_claimed"
	EventItemPurchased    EventType = "item_purchased"
	EventItemSold         EventType = "item_sold"
	EventItemUsed         EventType = "item_used"
	EventSaveCreated      EventType = "save_created"
	EventSaveLoaded       EventType = "save_loaded"
)

// Event is one recorded gameplay event.
type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}
