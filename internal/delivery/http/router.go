package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventlodging/internal/delivery/http/controllers"
	"eventlodging/internal/delivery/http/middleware"
	"eventlodging/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Every mutating assignment route is gated by the staff roles; reads require
// authentication only.
func NewRouter(
	assignmentController *controllers.AssignmentController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(verifier)
	staff := middleware.RequireRoles(
		domain.RoleSuperAdmin,
		domain.RoleOrgAdmin,
		domain.RoleOrganizer,
		domain.RoleAssistant,
	)
	mutating := func(h http.HandlerFunc) http.HandlerFunc { return authed(staff(h)) }

	// Assignments
	mux.HandleFunc("GET /assignments/event/{eventID}", authed(assignmentController.ListAssignments))
	mux.HandleFunc("GET /assignments/event/{eventID}/statistics", authed(assignmentController.Statistics))
	mux.HandleFunc("PUT /attendees/{attendeeID}/room", mutating(assignmentController.AssignRoom))
	mux.HandleFunc("PUT /attendees/{attendeeID}/bus", mutating(assignmentController.AssignBus))
	mux.HandleFunc("POST /assignments/bulk", mutating(assignmentController.BulkAssign))
	mux.HandleFunc("POST /assignments/event/{eventID}/auto-assign", mutating(assignmentController.AutoAssign))
	mux.HandleFunc("POST /assignments/validate", mutating(assignmentController.ValidateAssignments))

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
