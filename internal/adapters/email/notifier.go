package email

import (
	"context"
	"fmt"
	"log/slog"

	"eventlodging/internal/domain"
)

type assignmentNotifier struct {
	mailer domain.Mailer
	logger *slog.Logger
}

// NewAssignmentNotifier returns an AssignmentNotifier that emails attendees
// their room assignment. Send failures are logged and swallowed; a missed
// notification never fails the assignment that triggered it.
func NewAssignmentNotifier(mailer domain.Mailer, logger *slog.Logger) domain.AssignmentNotifier {
	return &assignmentNotifier{mailer: mailer, logger: logger}
}

func (n *assignmentNotifier) NotifyRoomAssigned(ctx context.Context, attendee *domain.Attendee, room *domain.Room) {
	if attendee.Email == "" {
		return
	}
	subject := "Your room assignment"
	text := fmt.Sprintf("Hello %s,\n\nYou have been assigned to room %d.\n", attendee.Name, room.Number)
	html := fmt.Sprintf("<p>Hello %s,</p><p>You have been assigned to room <strong>%d</strong>.</p>", attendee.Name, room.Number)
	if err := n.mailer.Send(attendee.Email, subject, html, text); err != nil {
		n.logger.Warn("room assignment notification failed",
			"attendee_id", attendee.ID,
			"room_id", room.ID,
			"error", err,
		)
	}
}
