package services

import (
	"context"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/repository"
)

// UserService, kullanıcının kendi hesabı üzerindeki işlemler: profil ve hatırlatıcılar.
type UserService interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) (*models.User, error)
	UpdateReminders(ctx context.Context, userID string, reminders models.Reminders) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService, constructor.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile, profili bütün olarak değiştirir (PUT semantiği).
func (s *userService) UpdateProfile(ctx context.Context, userID string, profile models.Profile) (*models.User, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateReminders(ctx context.Context, userID string, reminders models.Reminders) (*models.User, error) {
	if err := s.userRepo.UpdateReminders(ctx, userID, reminders); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}
