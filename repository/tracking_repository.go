package repository

import (
	"context"

	"github.com/akinalp/healthy/models"
)

// ProgressRepository, ilerleme günlüğü kayıtları.
type ProgressRepository interface {
	Create(ctx context.Context, entry *models.ProgressEntry) error
	// ListByUser, kullanıcının kayıtları, tarihe göre yeniden eskiye.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error)
	// Delete, yalnızca sahibinin kaydını siler; yoksa pkg.ErrNotFound.
	Delete(ctx context.Context, userID, entryID string) error
}

// CustomMealRepository, kullanıcı tarifleri.
type CustomMealRepository interface {
	Create(ctx context.Context, meal *models.CustomMeal) error
	// GetByID, bulunamazsa pkg.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.CustomMeal, error)
	// ListByUser, kullanıcının tarifleri, yeniden eskiye.
	ListByUser(ctx context.Context, userID string) ([]models.CustomMeal, error)
	// SearchPublic, herkese açık tarifleri isimde arar (q boşsa hepsi). Owner doludur.
	SearchPublic(ctx context.Context, query string, limit int) ([]models.CustomMeal, error)
	// Update, sahibinin tarifini değiştirir; yoksa pkg.ErrNotFound.
	Update(ctx context.Context, meal *models.CustomMeal) error
	// Delete, yalnızca sahibinin tarifini siler; yoksa pkg.ErrNotFound.
	Delete(ctx context.Context, userID, mealID string) error
}
