package appointments

import (
	"strings"

	"appointments-server/internal/models"
)

// IsParticipant reports whether the actor is the sender or the recipient of
// the appointment. Email comparison is case-insensitive.
func IsParticipant(actor string, appt *models.Appointment) bool {
	return strings.EqualFold(actor, appt.Sender) || strings.EqualFold(actor, appt.Recipient)
}

// IsManager reports whether the actor appears in the roster with the manager
// role. The roster is read fresh from the repository on every decision; the
// manager set changes rarely and correctness matters more than lookup cost.
func IsManager(actor string, roster []models.User) bool {
	for i := range roster {
		if strings.EqualFold(roster[i].Email, actor) && roster[i].IsManager() {
			return true
		}
	}
	return false
}
