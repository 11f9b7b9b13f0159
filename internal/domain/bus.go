package domain

import (
	"context"
	"time"
)

// Bus is the transport counterpart of a room: same capacity invariant,
// no gender or age constraint.
// swagger:model Bus
type Bus struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	Name          string    `json:"name"`
	Capacity      int       `json:"capacity"`
	GatheringArea string    `json:"gathering_area"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BusRepository defines storage operations for buses.
type BusRepository interface {
	GetByID(ctx context.Context, id string) (*Bus, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Bus, error)
}
