package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventlodging/internal/domain"
)

var attendeeCols = []string{
	"id", "event_id", "name", "last_name", "email", "gender", "age", "is_leader",
	"is_elderly", "special_requests", "room_id", "bus_id", "registration_date",
	"created_at", "updated_at",
}

var prefCols = []string{"id", "attendee_id", "preferred_attendee_id", "is_family", "family_head_attendee_id"}

func attendeeRow(id, gender string, roomID driver.Value) []driver.Value {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "ev-1", "First", "Last", id + "@example.com", gender, nil, false,
		false, nil, roomID, nil, now, now, now,
	}
}

func TestAttendeeRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		id        string
		mock      func(mock sqlmock.Sqlmock)
		wantRoom  *string
		wantPrefs int
		wantErr   bool
		errIs     error
	}{
		{
			name: "success with preferences",
			id:   "att-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM attendees`).
					WithArgs("att-1").
					WillReturnRows(sqlmock.NewRows(attendeeCols).AddRow(attendeeRow("att-1", "male", "room-1")...))
				mock.ExpectQuery(`FROM attendee_preferences`).
					WithArgs(pq.Array([]string{"att-1"})).
					WillReturnRows(sqlmock.NewRows(prefCols).
						AddRow("pref-1", "att-1", "att-2", false, nil).
						AddRow("pref-2", "att-1", nil, true, "att-3"))
			},
			wantRoom:  strPtr("room-1"),
			wantPrefs: 2,
		},
		{
			name: "unassigned attendee has nil room",
			id:   "att-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM attendees`).
					WithArgs("att-2").
					WillReturnRows(sqlmock.NewRows(attendeeCols).AddRow(attendeeRow("att-2", "female", nil)...))
				mock.ExpectQuery(`FROM attendee_preferences`).
					WithArgs(pq.Array([]string{"att-2"})).
					WillReturnRows(sqlmock.NewRows(prefCols))
			},
			wantRoom:  nil,
			wantPrefs: 0,
		},
		{
			name: "not found",
			id:   "att-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM attendees`).
					WithArgs("att-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "att-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM attendees`).
					WithArgs("att-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			repo := NewAttendeeRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.id, got.ID)
			require.Equal(t, tt.wantRoom, got.RoomID)
			require.Len(t, got.Preferences, tt.wantPrefs)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendeeRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()

	t.Run("preferences attached to the right attendees", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM attendees`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows(attendeeCols).
				AddRow(attendeeRow("att-1", "male", "room-1")...).
				AddRow(attendeeRow("att-2", "female", nil)...))
		mock.ExpectQuery(`FROM attendee_preferences`).
			WithArgs(pq.Array([]string{"att-1", "att-2"})).
			WillReturnRows(sqlmock.NewRows(prefCols).
				AddRow("pref-1", "att-2", "att-1", false, nil))

		repo := NewAttendeeRepository(db)
		got, err := repo.ListByEventID(ctx, "ev-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Empty(t, got[0].Preferences)
		require.Len(t, got[1].Preferences, 1)
		require.Equal(t, "att-1", *got[1].Preferences[0].PreferredAttendeeID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty event returns empty slice without preference query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM attendees`).
			WithArgs("ev-empty").
			WillReturnRows(sqlmock.NewRows(attendeeCols))

		repo := NewAttendeeRepository(db)
		got, err := repo.ListByEventID(ctx, "ev-empty")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttendeeRepository_UpdateRoomAssignment(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		roomID  *string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name:   "assign room",
			id:     "att-1",
			roomID: strPtr("room-1"),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE attendees`).
					WithArgs("att-1", sql.NullString{String: "room-1", Valid: true}).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "unassign writes null",
			id:     "att-1",
			roomID: nil,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE attendees`).
					WithArgs("att-1", sql.NullString{}).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "unknown attendee",
			id:     "att-missing",
			roomID: strPtr("room-1"),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE attendees`).
					WithArgs("att-missing", sql.NullString{String: "room-1", Valid: true}).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name:   "db error",
			id:     "att-1",
			roomID: strPtr("room-1"),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE attendees`).
					WithArgs("att-1", sql.NullString{String: "room-1", Valid: true}).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			repo := NewAttendeeRepository(db)
			err = repo.UpdateRoomAssignment(ctx, tt.id, tt.roomID)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendeeRepository_UpdateBusAssignment(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE attendees`).
		WithArgs("att-1", sql.NullString{String: "bus-1", Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAttendeeRepository(db)
	require.NoError(t, repo.UpdateBusAssignment(ctx, "att-1", strPtr("bus-1")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }
