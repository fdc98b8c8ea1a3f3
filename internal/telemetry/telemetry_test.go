package telemetry

import (
	"testing"
	"time"
)

func TestRecorderFilters(t *testing.T) {
	rec := NewMemoryRecorder()
	rec.Record(EventPlayerRegistered)
	rec.Record(EventQuestCompleted)
	rec.Record(EventQuestCompleted)

	all := rec.Events(time.Time{}, nil)
	if len(all) != 3 {
		t.Fatalf("events = %d, want 3", len(all))
	}
	if all[0].ID >= all[1].ID {
		t.Error("ids should be monotonic")
	}

	quests := rec.Events(time.Time{}, []EventType{EventQuestCompleted})
	if len(quests) != 2 {
		t.Errorf("quest events = %d, want 2", len(quests))
	}

	future := rec.Events(time.Now().Add(time.Hour), nil)
	if len(future) != 0 {
		t.Errorf("future window should be empty, got %d", len(future))
	}

	rec.Clear()
	if got := rec.Events(time.Time{}, nil); len(got) != 0 {
		t.Errorf("events after clear = %d", len(got))
	}
}

func TestSummarize(t *testing.T) {
	rec := NewMemoryRecorder()
	for i := 0; i < 4; i++ {
		rec.Record(EventQuestCompleted)
	}
	rec.Record(EventRewardClaimed)
	rec.Record(EventItemPurchased)
	rec.Record(EventPlayerRegistered)

	stats := Summarize(rec.Events(time.Time{}, nil), time.Time{})
	if stats.QuestCompletions != 4 {
		t.Errorf("quest completions = %d, want 4", stats.QuestCompletions)
	}
	if stats.RewardClaims != 1 || stats.Purchases != 1 || stats.Registrations != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ClaimRate != 0.25 {
		t.Errorf("claim rate = %f, want 0.25", stats.ClaimRate)
	}
	if stats.EventCounts[EventQuestCompleted] != 4 {
		t.Errorf("event counts = %+v", stats.EventCounts)
	}
}
