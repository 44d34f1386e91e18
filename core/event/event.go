package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a named occurrence with metadata and payload.
type Event struct {
	ID        string    `json:"id"`         // Unique identifier for the event
	Name      string    `json:"name"`       // Event name (e.g., "change")
	Payload   any       `json:"payload"`    // Event data
	CreatedAt time.Time `json:"created_at"` // When the event was created
}

// NewEvent creates a new Event with auto-generated ID and timestamp.
//
// Example:
//
//	evt := event.NewEvent("change", Change{Path: "a.b"})
//	// evt.ID will be a UUID
//	// evt.CreatedAt will be time.Now()
func NewEvent(name string, payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      name,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}
