package services

import (
	"context"
	"time"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/repository"
	"github.com/google/uuid"
)

// ProgressService, kullanıcının özel ilerleme günlüğü. Kayıtlar yalnızca
// sahibine görünür; arkadaşlarla paylaşım progress_update gönderisiyle yapılır.
type ProgressService interface {
	Log(ctx context.Context, userID string, req *models.CreateProgressRequest) (*models.ProgressEntry, error)
	List(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error)
	Delete(ctx context.Context, userID, entryID string) error
}

type progressService struct {
	progressRepo repository.ProgressRepository
}

// NewProgressService, constructor.
func NewProgressService(progressRepo repository.ProgressRepository) ProgressService {
	return &progressService{progressRepo: progressRepo}
}

func (s *progressService) Log(ctx context.Context, userID string, req *models.CreateProgressRequest) (*models.ProgressEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}

	entry := &models.ProgressEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      date,
		Weight:    req.Weight,
		Calories:  req.Calories,
		Water:     req.Water,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fat:       req.Fat,
		Workout:   req.Workout,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.progressRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List, en yeni kayıtlar önce. limit 1..365 aralığına çekilir (0 → 30).
func (s *progressService) List(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error) {
	return s.progressRepo.ListByUser(ctx, userID, models.ClampProgressLimit(limit))
}

func (s *progressService) Delete(ctx context.Context, userID, entryID string) error {
	return s.progressRepo.Delete(ctx, userID, entryID)
}
