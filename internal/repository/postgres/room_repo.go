package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventlodging/internal/domain"
)

type roomRepository struct {
	DB *sql.DB
}

func NewRoomRepository(db *sql.DB) domain.RoomRepository {
	return &roomRepository{
		DB: db,
	}
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	query := `
		SELECT id, building_id, number, capacity, gender_type, floor,
		       is_ground_floor_suitable, is_available, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`
	room := &domain.Room{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&room.ID, &room.BuildingID, &room.Number, &room.Capacity, &room.GenderType,
		&room.Floor, &room.IsGroundFloorSuitable, &room.IsAvailable,
		&room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Room, error) {
	query := `
		SELECT r.id, r.building_id, r.number, r.capacity, r.gender_type, r.floor,
		       r.is_ground_floor_suitable, r.is_available, r.created_at, r.updated_at
		FROM rooms r
		JOIN buildings b ON b.id = r.building_id
		JOIN accommodations a ON a.id = b.accommodation_id
		WHERE a.event_id = $1
		ORDER BY b.name, r.number
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(
			&room.ID, &room.BuildingID, &room.Number, &room.Capacity, &room.GenderType,
			&room.Floor, &room.IsGroundFloorSuitable, &room.IsAvailable,
			&room.CreatedAt, &room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []*domain.Room{}
	}
	return rooms, nil
}
