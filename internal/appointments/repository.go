package appointments

import (
	"context"

	"appointments-server/internal/models"
)

// Filter narrows QueryAppointments results. Zero-valued fields are ignored;
// set fields combine with AND.
type Filter struct {
	ID        string
	Name      string
	Status    models.AppointmentStatus
	Date      string // DateLayout
	Sender    string
	Recipient string
}

// AppointmentRepository is the storage capability the transition engine and
// the read endpoints require. Any implementation must make GetAppointment
// observe a preceding CreateAppointment for the same id, apply updates
// last-writer-wins per id, and report ErrNotFound instead of silently
// no-opping when an update or delete targets an absent record.
type AppointmentRepository interface {
	// CreateAppointment assigns the id, defaults the status to created,
	// persists the record and returns the stored copy.
	CreateAppointment(ctx context.Context, appt *models.Appointment) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	QueryAppointments(ctx context.Context, f Filter) ([]models.Appointment, error)
	// UpdateAppointment fully replaces the stored record with the same id.
	UpdateAppointment(ctx context.Context, appt *models.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
}

// UserRepository holds the persisted manager roster, the single source of
// truth for manager membership.
type UserRepository interface {
	ListManagers(ctx context.Context) ([]models.User, error)
	AddManager(ctx context.Context, user *models.User) (*models.User, error)
}

// Repository combines the appointment and user capabilities.
type Repository interface {
	AppointmentRepository
	UserRepository
}
