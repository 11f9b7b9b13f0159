package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventlodging/internal/delivery/http/helpers"
	"eventlodging/internal/domain"
)

type mockAssignmentService struct {
	conflicts []domain.AssignmentConflict
	result    *domain.AssignmentResult
	err       error
}

func (m *mockAssignmentService) AssignAttendee(ctx context.Context, attendeeID string, roomID *string, overrideWarnings bool) ([]domain.AssignmentConflict, error) {
	return m.conflicts, m.err
}

func (m *mockAssignmentService) AssignToBus(ctx context.Context, attendeeID string, busID *string) error {
	return m.err
}

func (m *mockAssignmentService) BulkAssign(ctx context.Context, eventID string, items []domain.AssignmentItem, overrideWarnings bool) (*domain.AssignmentResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAssignmentService) AutoAssign(ctx context.Context, eventID string, overrideWarnings bool) (*domain.AssignmentResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAssignmentService) Validate(ctx context.Context, eventID string) (*domain.ValidationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ValidationResult{IsValid: true}, nil
}

func (m *mockAssignmentService) Statistics(ctx context.Context, eventID string) (*domain.EventStatistics, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.EventStatistics{TotalAttendees: 2}, nil
}

func (m *mockAssignmentService) ListRoomOccupancy(ctx context.Context, eventID string) ([]*domain.RoomOccupancy, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*domain.RoomOccupancy{}, nil
}

func testController(svc domain.AssignmentService) *AssignmentController {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAssignmentController(logger, svc)
}

const (
	validAttendeeID = "11111111-1111-1111-1111-111111111111"
	validRoomID     = "22222222-2222-2222-2222-222222222222"
	validEventID    = "33333333-3333-3333-3333-333333333333"
)

func assignRoomRequest(t *testing.T, attendeeID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/attendees/"+attendeeID+"/room", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("attendeeID", attendeeID)
	return req
}

func TestAssignmentController_AssignRoom_Success(t *testing.T) {
	ctrl := testController(&mockAssignmentService{})

	w := httptest.NewRecorder()
	ctrl.AssignRoom(w, assignRoomRequest(t, validAttendeeID, `{"room_id":"`+validRoomID+`"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}

func TestAssignmentController_AssignRoom_InvalidAttendeeID(t *testing.T) {
	ctrl := testController(&mockAssignmentService{})

	w := httptest.NewRecorder()
	ctrl.AssignRoom(w, assignRoomRequest(t, "not-a-uuid", `{"room_id":null}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAssignmentController_AssignRoom_ErrorMapping(t *testing.T) {
	conflicts := []domain.AssignmentConflict{
		{Type: domain.ConflictCapacityExceeded, Severity: domain.SeverityError, AttendeeID: validAttendeeID, Message: "room full"},
	}
	tests := []struct {
		name         string
		svc          *mockAssignmentService
		wantStatus   int
		wantCode     string
		wantConflict bool
	}{
		{
			name:       "unknown attendee",
			svc:        &mockAssignmentService{err: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "unavailable room",
			svc:        &mockAssignmentService{err: domain.ErrInvalidInput},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:         "hard constraint violation carries conflicts",
			svc:          &mockAssignmentService{err: domain.ErrConstraintViolation, conflicts: conflicts},
			wantStatus:   http.StatusBadRequest,
			wantCode:     helpers.ErrCodeBadRequest,
			wantConflict: true,
		},
		{
			name:         "warnings without override carry conflicts",
			svc:          &mockAssignmentService{err: domain.ErrOverrideRequired, conflicts: conflicts},
			wantStatus:   http.StatusConflict,
			wantCode:     helpers.ErrCodeConflict,
			wantConflict: true,
		},
		{
			name:       "broken invariant is internal",
			svc:        &mockAssignmentService{err: domain.ErrInvariantBroken},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := testController(tt.svc)

			w := httptest.NewRecorder()
			ctrl.AssignRoom(w, assignRoomRequest(t, validAttendeeID, `{"room_id":"`+validRoomID+`"}`))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp helpers.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Error == nil {
				t.Fatalf("expected an error envelope")
			}
			if resp.Error.Code != tt.wantCode {
				t.Fatalf("expected error code %q, got %q", tt.wantCode, resp.Error.Code)
			}
			if tt.wantConflict && resp.Error.Details == nil {
				t.Fatalf("expected conflict details in the error")
			}
		})
	}
}

func TestAssignmentController_BulkAssign_InvalidBody(t *testing.T) {
	ctrl := testController(&mockAssignmentService{})

	req := httptest.NewRequest(http.MethodPost, "/assignments/bulk", strings.NewReader(`{"event_id":"nope","assignments":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ctrl.BulkAssign(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAssignmentController_BulkAssign_Success(t *testing.T) {
	ctrl := testController(&mockAssignmentService{
		result: &domain.AssignmentResult{TotalAssigned: 1},
	})

	body := `{"event_id":"` + validEventID + `","assignments":[{"attendee_id":"` + validAttendeeID + `","room_id":"` + validRoomID + `"}]}`
	req := httptest.NewRequest(http.MethodPost, "/assignments/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ctrl.BulkAssign(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestAssignmentController_AutoAssign_NoBody(t *testing.T) {
	ctrl := testController(&mockAssignmentService{
		result: &domain.AssignmentResult{TotalAssigned: 3},
	})

	req := httptest.NewRequest(http.MethodPost, "/assignments/event/"+validEventID+"/auto-assign", nil)
	req.SetPathValue("eventID", validEventID)
	w := httptest.NewRecorder()
	ctrl.AutoAssign(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAssignmentController_AutoAssign_UnknownEvent(t *testing.T) {
	ctrl := testController(&mockAssignmentService{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodPost, "/assignments/event/"+validEventID+"/auto-assign", nil)
	req.SetPathValue("eventID", validEventID)
	w := httptest.NewRecorder()
	ctrl.AutoAssign(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestAssignmentController_ListAssignments_Pagination(t *testing.T) {
	occupancy := make([]*domain.RoomOccupancy, 0, 3)
	for i := 0; i < 3; i++ {
		occupancy = append(occupancy, &domain.RoomOccupancy{})
	}
	ctrl := testController(&mockOccupancyService{occupancy: occupancy})

	req := httptest.NewRequest(http.MethodGet, "/assignments/event/"+validEventID+"?page=2&page_size=2", nil)
	req.SetPathValue("eventID", validEventID)
	w := httptest.NewRecorder()
	ctrl.ListAssignments(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data RoomOccupancyListResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data.Items) != 1 {
		t.Fatalf("expected 1 item on page 2, got %d", len(resp.Data.Items))
	}
	if resp.Data.Meta.Total != 3 {
		t.Fatalf("expected total 3, got %d", resp.Data.Meta.Total)
	}
}

// mockOccupancyService overrides only the occupancy listing.
type mockOccupancyService struct {
	mockAssignmentService
	occupancy []*domain.RoomOccupancy
}

func (m *mockOccupancyService) ListRoomOccupancy(ctx context.Context, eventID string) ([]*domain.RoomOccupancy, error) {
	return m.occupancy, nil
}

func TestAssignmentController_Statistics_Success(t *testing.T) {
	ctrl := testController(&mockAssignmentService{})

	req := httptest.NewRequest(http.MethodGet, "/assignments/event/"+validEventID+"/statistics", nil)
	req.SetPathValue("eventID", validEventID)
	w := httptest.NewRecorder()
	ctrl.Statistics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
