package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"eventlodging/internal/delivery/http/helpers"
	"eventlodging/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type AssignmentController struct {
	Logger  *slog.Logger
	Service domain.AssignmentService
}

func NewAssignmentController(logger *slog.Logger, svc domain.AssignmentService) *AssignmentController {
	return &AssignmentController{
		Logger:  logger,
		Service: svc,
	}
}

// AssignRoomRequest is the body for PUT /attendees/{attendeeID}/room.
// A null room_id clears the assignment.
// swagger:model AssignRoomRequest
type AssignRoomRequest struct {
	RoomID           *string `json:"room_id"`
	OverrideWarnings bool    `json:"override_warnings"`
}

// Validate implements helpers.Validator.
func (req AssignRoomRequest) Validate() []string {
	if req.RoomID != nil && !uuidRegex.MatchString(*req.RoomID) {
		return []string{"invalid room_id"}
	}
	return nil
}

// AssignRoomResponse reports the outcome of a single assignment, including
// any warnings that were overridden.
// swagger:model AssignRoomResponse
type AssignRoomResponse struct {
	Success   bool                        `json:"success"`
	Conflicts []domain.AssignmentConflict `json:"conflicts"`
}

// AssignRoom godoc
// @Summary Assign or unassign an attendee's room
// @Description Validates and commits one attendee→room move. A null room_id unassigns unconditionally. Hard conflicts reject with 400; warnings reject with 409 unless override_warnings is set.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attendeeID path string true "Attendee ID (UUID)"
// @Param request body controllers.AssignRoomRequest true "Target room"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request; details: conflicts"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict; details: conflicts"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/{attendeeID}/room [put]
func (c *AssignmentController) AssignRoom(w http.ResponseWriter, r *http.Request) {
	attendeeID := r.PathValue("attendeeID")
	if !uuidRegex.MatchString(attendeeID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid attendeeID")
		return
	}
	var req AssignRoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	conflicts, err := c.Service.AssignAttendee(r.Context(), attendeeID, req.RoomID, req.OverrideWarnings)
	if err != nil {
		c.writeAssignmentError(w, err, conflicts)
		return
	}
	if conflicts == nil {
		conflicts = []domain.AssignmentConflict{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AssignRoomResponse{Success: true, Conflicts: conflicts})
}

// AssignBusRequest is the body for PUT /attendees/{attendeeID}/bus.
// swagger:model AssignBusRequest
type AssignBusRequest struct {
	BusID *string `json:"bus_id"`
}

// Validate implements helpers.Validator.
func (req AssignBusRequest) Validate() []string {
	if req.BusID != nil && !uuidRegex.MatchString(*req.BusID) {
		return []string{"invalid bus_id"}
	}
	return nil
}

// AssignBus godoc
// @Summary Assign or unassign an attendee's bus
// @Description Moves the attendee onto the bus if it has free capacity. A null bus_id removes the attendee from their bus.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attendeeID path string true "Attendee ID (UUID)"
// @Param request body controllers.AssignBusRequest true "Target bus"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/{attendeeID}/bus [put]
func (c *AssignmentController) AssignBus(w http.ResponseWriter, r *http.Request) {
	attendeeID := r.PathValue("attendeeID")
	if !uuidRegex.MatchString(attendeeID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid attendeeID")
		return
	}
	var req AssignBusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Service.AssignToBus(r.Context(), attendeeID, req.BusID); err != nil {
		c.writeAssignmentError(w, err, nil)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AssignRoomResponse{Success: true, Conflicts: []domain.AssignmentConflict{}})
}

// BulkAssignRequest is the body for POST /assignments/bulk.
// swagger:model BulkAssignRequest
type BulkAssignRequest struct {
	EventID          string                  `json:"event_id"`
	Assignments      []domain.AssignmentItem `json:"assignments"`
	OverrideWarnings bool                    `json:"override_warnings"`
}

// Validate implements helpers.Validator.
func (req BulkAssignRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(req.EventID) {
		errs = append(errs, "invalid event_id")
	}
	if len(req.Assignments) == 0 {
		errs = append(errs, "assignments must not be empty")
	}
	for _, item := range req.Assignments {
		errs = append(errs, item.Validate()...)
	}
	return errs
}

// BulkAssign godoc
// @Summary Apply a batch of attendee→room assignments
// @Description Items are processed sequentially in the supplied order against one occupancy view; a rejected item never aborts the batch. The whole request is rejected with 404 if the event or any referenced attendee or room is unknown.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.BulkAssignRequest true "Batch"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/bulk [post]
func (c *AssignmentController) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req BulkAssignRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.BulkAssign(r.Context(), req.EventID, req.Assignments, req.OverrideWarnings)
	if err != nil {
		c.writeAssignmentError(w, err, nil)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// AutoAssignRequest is the optional body for POST /assignments/event/{eventID}/auto-assign.
// swagger:model AutoAssignRequest
type AutoAssignRequest struct {
	OverrideWarnings bool `json:"override_warnings"`
}

// AutoAssign godoc
// @Summary Automatically place all unassigned attendees of an event
// @Description Greedy, deterministic placement over all unassigned attendees and rooms with free capacity, honoring family and preference groups and the ground-floor preference of elderly attendees. Best-effort: unassignable attendees are reported in the result.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param request body controllers.AutoAssignRequest false "Options"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/event/{eventID}/auto-assign [post]
func (c *AssignmentController) AutoAssign(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req AutoAssignRequest
	if r.ContentLength > 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}
	result, err := c.Service.AutoAssign(r.Context(), eventID, req.OverrideWarnings)
	if err != nil {
		c.writeAssignmentError(w, err, nil)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// ValidateRequest is the body for POST /assignments/validate.
// swagger:model ValidateRequest
type ValidateRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements helpers.Validator.
func (req ValidateRequest) Validate() []string {
	if !uuidRegex.MatchString(req.EventID) {
		return []string{"invalid event_id"}
	}
	return nil
}

// ValidateAssignments godoc
// @Summary Recompute all conflicts for an event's committed assignments
// @Description Read-only: re-runs every constraint against the committed state and reports the conflicts and suggestions. is_valid is true iff no error-severity conflict exists.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.ValidateRequest true "Event"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/validate [post]
func (c *AssignmentController) ValidateAssignments(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Validate(r.Context(), req.EventID)
	if err != nil {
		c.writeAssignmentError(w, err, nil)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// RoomOccupancyListResponse is the paginated payload of the room occupancy listing.
// swagger:model RoomOccupancyListResponse
type RoomOccupancyListResponse struct {
	Items []*domain.RoomOccupancy `json:"items"`
	Meta  helpers.PaginationMeta  `json:"meta"`
}

// ListAssignments godoc
// @Summary List an event's rooms with their current occupants
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/event/{eventID} [get]
func (c *AssignmentController) ListAssignments(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	occupancy, err := c.Service.ListRoomOccupancy(r.Context(), eventID)
	if err != nil {
		c.writeAssignmentError(w, err, nil)
		return
	}

	params := helpers.ParsePagination(r)
	total := len(occupancy)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RoomOccupancyListResponse{
		Items: occupancy[start:end],
		Meta:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Statistics godoc
// @Summary Occupancy and demographic statistics for an event
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignments/event/{eventID}/statistics [get]
func (c *AssignmentController) Statistics(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	stats, err := c.Service.Statistics(r.Context(), eventID)
	if err != nil {
		c.writeAssignmentError(w, err, nil)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// writeAssignmentError maps engine errors to the HTTP taxonomy: 404 for
// missing entities, 400 with conflicts for hard violations, 409 with
// conflicts when only warnings block and no override was given, 500 for
// broken invariants (a bug, logged at error level) and everything else.
func (c *AssignmentController) writeAssignmentError(w http.ResponseWriter, err error, conflicts []domain.AssignmentConflict) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "room is not available for assignment")
	case errors.Is(err, domain.ErrConstraintViolation):
		helpers.WriteJSONErrorDetails(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "assignment violates a hard constraint", conflicts)
	case errors.Is(err, domain.ErrOverrideRequired):
		helpers.WriteJSONErrorDetails(w, http.StatusConflict, helpers.ErrCodeConflict, "assignment blocked by warnings; retry with override_warnings", conflicts)
	case errors.Is(err, domain.ErrInvariantBroken):
		c.Logger.Error("occupancy invariant broken", "error", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	default:
		c.Logger.Error("assignment request failed", "error", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
