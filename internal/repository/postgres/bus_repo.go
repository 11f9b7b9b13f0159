package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventlodging/internal/domain"
)

type busRepository struct {
	DB *sql.DB
}

func NewBusRepository(db *sql.DB) domain.BusRepository {
	return &busRepository{
		DB: db,
	}
}

func (r *busRepository) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	query := `
		SELECT id, event_id, name, capacity, gathering_area, created_at, updated_at
		FROM buses
		WHERE id = $1
	`
	b := &domain.Bus{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.EventID, &b.Name, &b.Capacity, &b.GatheringArea, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *busRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Bus, error) {
	query := `
		SELECT id, event_id, name, capacity, gathering_area, created_at, updated_at
		FROM buses
		WHERE event_id = $1
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []*domain.Bus
	for rows.Next() {
		b := &domain.Bus{}
		if err := rows.Scan(&b.ID, &b.EventID, &b.Name, &b.Capacity, &b.GatheringArea, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		buses = append(buses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if buses == nil {
		buses = []*domain.Bus{}
	}
	return buses, nil
}
