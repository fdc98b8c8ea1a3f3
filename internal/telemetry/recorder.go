package telemetry

import (
	"sync"
	"time"
)

// Recorder collects gameplay events.
type Recorder interface {
	Record(eventType EventType)
	Events(since time.Time, eventTypes []EventType) []Event
	Clear()
}

// MemoryRecorder keeps events in memory. Counters reset on restart, which is
// acceptable for the balance dashboard they feed.
type MemoryRecorder struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{nextID: 1}
}

func (r *MemoryRecorder) Record(eventType EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	})
	r.nextID++
}

// Events returns events at or after since, optionally filtered by type.
func (r *MemoryRecorder) Events(since time.Time, eventTypes []EventType) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if e.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[e.Type] {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *MemoryRecorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.nextID = 1
}
