package domain

import (
	"context"
	"time"
)

// RoomGenderType restricts who may occupy a room. Male and female rooms are
// single-gender; mixed rooms accept anyone; family rooms are reserved for
// family groups and are the only type that fits a mixed-gender family.
type RoomGenderType string

const (
	RoomGenderMale   RoomGenderType = "male"
	RoomGenderFemale RoomGenderType = "female"
	RoomGenderMixed  RoomGenderType = "mixed"
	RoomGenderFamily RoomGenderType = "family"
)

// Room represents a lodging room within a building.
// swagger:model Room
type Room struct {
	ID                    string         `json:"id"`
	BuildingID            string         `json:"building_id"`
	Number                int            `json:"number"`
	Capacity              int            `json:"capacity"`
	GenderType            RoomGenderType `json:"gender_type"`
	Floor                 int            `json:"floor"`
	IsGroundFloorSuitable bool           `json:"is_ground_floor_suitable"`
	IsAvailable           bool           `json:"is_available"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// Building owns an ordered set of rooms and belongs to one accommodation.
// swagger:model Building
type Building struct {
	ID              string    `json:"id"`
	AccommodationID string    `json:"accommodation_id"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Accommodation groups buildings for one event.
// swagger:model Accommodation
type Accommodation struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomRepository defines storage operations for the accommodation hierarchy.
// ListByEventID returns every room reachable through the event's
// accommodations, ordered by building then room number.
type RoomRepository interface {
	GetByID(ctx context.Context, id string) (*Room, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Room, error)
}
