package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"appointments-server/internal/appointments"
	"appointments-server/internal/models"
)

// GormStore is the relational implementation of the repository contract.
type GormStore struct {
	db *gorm.DB
}

var _ appointments.Repository = (*GormStore)(nil)

// NewGormStore creates a store over an initialized gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateAppointment(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	stored := *appt
	stored.ID = "" // ids are assigned here, never by the caller
	if stored.Status == "" {
		stored.Status = models.StatusCreated
	}
	if err := s.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return nil, fmt.Errorf("%w: create appointment: %v", appointments.ErrStorage, err)
	}
	return &stored, nil
}

func (s *GormStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: appointment %s", appointments.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get appointment: %v", appointments.ErrStorage, err)
	}
	return &appt, nil
}

func (s *GormStore) QueryAppointments(ctx context.Context, f appointments.Filter) ([]models.Appointment, error) {
	query := s.db.WithContext(ctx).Model(&models.Appointment{})
	if f.ID != "" {
		query = query.Where("id = ?", f.ID)
	}
	if f.Name != "" {
		query = query.Where("name = ?", f.Name)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		query = query.Where("date = ?", f.Date)
	}
	if f.Sender != "" {
		query = query.Where("sender = ?", f.Sender)
	}
	if f.Recipient != "" {
		query = query.Where("recipient = ?", f.Recipient)
	}

	var out []models.Appointment
	if err := query.Order("date, time").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%w: query appointments: %v", appointments.ErrStorage, err)
	}
	return out, nil
}

func (s *GormStore) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Appointment
		if err := tx.First(&existing, "id = ?", appt.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// distinguish "nothing to do" from a lost write
				return fmt.Errorf("%w: appointment %s", appointments.ErrNotFound, appt.ID)
			}
			return fmt.Errorf("%w: update appointment: %v", appointments.ErrStorage, err)
		}

		err := tx.Model(&existing).
			Select("sender", "recipient", "name", "date", "time", "status").
			Updates(appt).Error
		if err != nil {
			return fmt.Errorf("%w: update appointment: %v", appointments.ErrStorage, err)
		}
		return nil
	})
}

func (s *GormStore) DeleteAppointment(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("%w: delete appointment: %v", appointments.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: appointment %s", appointments.ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := s.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%w: list appointments: %v", appointments.ErrStorage, err)
	}
	return out, nil
}

func (s *GormStore) ListManagers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", models.RoleManager).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%w: list managers: %v", appointments.ErrStorage, err)
	}
	return out, nil
}

func (s *GormStore) AddManager(ctx context.Context, user *models.User) (*models.User, error) {
	stored := *user
	stored.ID = ""
	stored.Role = models.RoleManager
	if err := s.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return nil, fmt.Errorf("%w: add manager: %v", appointments.ErrStorage, err)
	}
	return &stored, nil
}
