package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventlodging/internal/domain"
)

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{
		DB: db,
	}
}

const attendeeColumns = `
	id, event_id, name, last_name, email, gender, age, is_leader, is_elderly,
	special_requests, room_id, bus_id, registration_date, created_at, updated_at
`

func scanAttendee(row interface{ Scan(...any) error }) (*domain.Attendee, error) {
	a := &domain.Attendee{}
	var ageNull sql.NullInt64
	var requestsNull, roomNull, busNull sql.NullString
	err := row.Scan(
		&a.ID, &a.EventID, &a.Name, &a.LastName, &a.Email, &a.Gender, &ageNull,
		&a.IsLeader, &a.IsElderly, &requestsNull, &roomNull, &busNull,
		&a.RegistrationDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ageNull.Valid {
		age := int(ageNull.Int64)
		a.Age = &age
	}
	if requestsNull.Valid {
		a.SpecialRequests = requestsNull.String
	}
	if roomNull.Valid {
		a.RoomID = &roomNull.String
	}
	if busNull.Valid {
		a.BusID = &busNull.String
	}
	return a, nil
}

func (r *attendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE id = $1
	`
	a, err := scanAttendee(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	prefs, err := r.listPreferences(ctx, []string{a.ID})
	if err != nil {
		return nil, err
	}
	a.Preferences = prefs[a.ID]
	return a, nil
}

func (r *attendeeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE event_id = $1
		ORDER BY registration_date, id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []*domain.Attendee
	var ids []string
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(attendees) == 0 {
		return []*domain.Attendee{}, nil
	}

	prefs, err := r.listPreferences(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range attendees {
		a.Preferences = prefs[a.ID]
	}
	return attendees, nil
}

func (r *attendeeRepository) listPreferences(ctx context.Context, attendeeIDs []string) (map[string][]*domain.AttendeePreference, error) {
	query := `
		SELECT id, attendee_id, preferred_attendee_id, is_family, family_head_attendee_id
		FROM attendee_preferences
		WHERE attendee_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(attendeeIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]*domain.AttendeePreference)
	for rows.Next() {
		p := &domain.AttendeePreference{}
		var preferredNull, headNull sql.NullString
		if err := rows.Scan(&p.ID, &p.AttendeeID, &preferredNull, &p.IsFamily, &headNull); err != nil {
			return nil, err
		}
		if preferredNull.Valid {
			p.PreferredAttendeeID = &preferredNull.String
		}
		if headNull.Valid {
			p.FamilyHeadAttendeeID = &headNull.String
		}
		out[p.AttendeeID] = append(out[p.AttendeeID], p)
	}
	return out, rows.Err()
}

func (r *attendeeRepository) UpdateRoomAssignment(ctx context.Context, attendeeID string, roomID *string) error {
	query := `
		UPDATE attendees
		SET room_id = $2, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, attendeeID, nullString(roomID))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *attendeeRepository) UpdateBusAssignment(ctx context.Context, attendeeID string, busID *string) error {
	query := `
		UPDATE attendees
		SET bus_id = $2, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, attendeeID, nullString(busID))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
