// Package repository provides the storage implementations behind the
// appointments.Repository contract: an in-memory reference store and a
// relational store over gorm.
package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"appointments-server/internal/appointments"
	"appointments-server/internal/models"
)

// MemoryStore is an in-memory implementation of the repository contract. It
// is safe for concurrent use and is primarily intended for tests and local
// development.
type MemoryStore struct {
	mu           sync.RWMutex
	appointments map[string]models.Appointment
	users        map[string]models.User // keyed by lowercased email
}

var _ appointments.Repository = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appointments: make(map[string]models.Appointment),
		users:        make(map[string]models.User),
	}
}

func (s *MemoryStore) CreateAppointment(_ context.Context, appt *models.Appointment) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *appt
	stored.ID = uuid.New().String()
	if stored.Status == "" {
		stored.Status = models.StatusCreated
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.appointments[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *MemoryStore) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: appointment %s", appointments.ErrNotFound, id)
	}
	out := appt
	return &out, nil
}

func (s *MemoryStore) QueryAppointments(_ context.Context, f appointments.Filter) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Appointment
	for _, appt := range s.appointments {
		if matches(&appt, f) {
			out = append(out, appt)
		}
	}
	return out, nil
}

func matches(appt *models.Appointment, f appointments.Filter) bool {
	if f.ID != "" && appt.ID != f.ID {
		return false
	}
	if f.Name != "" && appt.Name != f.Name {
		return false
	}
	if f.Status != "" && appt.Status != f.Status {
		return false
	}
	if f.Date != "" && appt.Date.String() != f.Date {
		return false
	}
	if f.Sender != "" && !strings.EqualFold(appt.Sender, f.Sender) {
		return false
	}
	if f.Recipient != "" && !strings.EqualFold(appt.Recipient, f.Recipient) {
		return false
	}
	return true
}

func (s *MemoryStore) UpdateAppointment(_ context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.appointments[appt.ID]
	if !ok {
		return fmt.Errorf("%w: appointment %s", appointments.ErrNotFound, appt.ID)
	}

	stored := *appt
	stored.CreatedAt = original.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	s.appointments[stored.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteAppointment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return fmt.Errorf("%w: appointment %s", appointments.ErrNotFound, id)
	}
	delete(s.appointments, id)
	return nil
}

func (s *MemoryStore) ListAppointments(_ context.Context) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0, len(s.appointments))
	for _, appt := range s.appointments {
		out = append(out, appt)
	}
	return out, nil
}

func (s *MemoryStore) ListManagers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, u := range s.users {
		if u.IsManager() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MemoryStore) AddManager(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.users[key]; exists {
		// mirrors the relational unique index on email
		return nil, fmt.Errorf("%w: user %s already exists", appointments.ErrStorage, user.Email)
	}

	stored := *user
	stored.ID = uuid.New().String()
	stored.Role = models.RoleManager
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.users[key] = stored
	out := stored
	return &out, nil
}
