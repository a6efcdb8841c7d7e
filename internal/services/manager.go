package services

import (
	"context"
	"strings"

	"appointments-server/internal/appointments"
	"appointments-server/internal/models"
)

// ManagerService maintains the persisted manager roster.
type ManagerService struct {
	repo appointments.Repository
}

// NewManagerService creates a manager service over the repository.
func NewManagerService(repo appointments.Repository) *ManagerService {
	return &ManagerService{repo: repo}
}

// FindManager returns the registered manager with the given email, or nil if
// none exists.
func (s *ManagerService) FindManager(ctx context.Context, email string) (*models.User, error) {
	managers, err := s.repo.ListManagers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range managers {
		if strings.EqualFold(managers[i].Email, email) {
			return &managers[i], nil
		}
	}
	return nil, nil
}

// ManagerExists reports whether a manager with the given email is registered.
func (s *ManagerService) ManagerExists(ctx context.Context, email string) (bool, error) {
	manager, err := s.FindManager(ctx, email)
	if err != nil {
		return false, err
	}
	return manager != nil, nil
}

// EnsureManagerExists registers a manager with the given email if none is
// present, returning the stored record either way. It is idempotent and is
// invoked once at process startup as well as by the subscription endpoint.
func (s *ManagerService) EnsureManagerExists(ctx context.Context, email string) (*models.User, error) {
	manager, err := s.FindManager(ctx, email)
	if err != nil {
		return nil, err
	}
	if manager != nil {
		return manager, nil
	}
	return s.repo.AddManager(ctx, &models.User{Email: email, Role: models.RoleManager})
}
