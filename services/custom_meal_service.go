package services

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/repository"
	"github.com/google/uuid"
)

// CustomMealService, kullanıcı tarifleri. Sahibi tarifini yönetir;
// is_public tarifler herkesin aramasında görünür.
type CustomMealService interface {
	Create(ctx context.Context, userID string, req *models.CustomMealRequest) (*models.CustomMeal, error)
	ListMine(ctx context.Context, userID string) ([]models.CustomMeal, error)
	SearchPublic(ctx context.Context, query string, limit int) ([]models.CustomMeal, error)
	Update(ctx context.Context, userID, mealID string, req *models.CustomMealRequest) (*models.CustomMeal, error)
	Delete(ctx context.Context, userID, mealID string) error
	// Visible, tarif sahibine aitse ya da herkese açıksa döner; aksi halde pkg.ErrNotFound.
	Visible(ctx context.Context, userID, mealID string) (*models.CustomMeal, error)
}

type customMealService struct {
	mealRepo repository.CustomMealRepository
}

// NewCustomMealService, constructor.
func NewCustomMealService(mealRepo repository.CustomMealRepository) CustomMealService {
	return &customMealService{mealRepo: mealRepo}
}

func (s *customMealService) Create(ctx context.Context, userID string, req *models.CustomMealRequest) (*models.CustomMeal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	meal := mealFromRequest(req)
	meal.ID = uuid.New().String()
	meal.UserID = userID
	meal.CreatedAt = now
	meal.UpdatedAt = now

	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *customMealService) ListMine(ctx context.Context, userID string) ([]models.CustomMeal, error) {
	return s.mealRepo.ListByUser(ctx, userID)
}

func (s *customMealService) SearchPublic(ctx context.Context, query string, limit int) ([]models.CustomMeal, error) {
	return s.mealRepo.SearchPublic(ctx, query, models.ClampPublicMealLimit(limit))
}

// Update, PUT semantiği: tarif bütün olarak değiştirilir. Başkasının tarifi NotFound.
func (s *customMealService) Update(ctx context.Context, userID, mealID string, req *models.CustomMealRequest) (*models.CustomMeal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	meal := mealFromRequest(req)
	meal.ID = mealID
	meal.UserID = userID
	meal.UpdatedAt = time.Now().UTC()

	if err := s.mealRepo.Update(ctx, meal); err != nil {
		return nil, err
	}

	updated, err := s.mealRepo.GetByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	updated.Owner = nil
	return updated, nil
}

func (s *customMealService) Delete(ctx context.Context, userID, mealID string) error {
	return s.mealRepo.Delete(ctx, userID, mealID)
}

func (s *customMealService) Visible(ctx context.Context, userID, mealID string) (*models.CustomMeal, error) {
	meal, err := s.mealRepo.GetByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if meal.UserID != userID && !meal.IsPublic {
		return nil, fmt.Errorf("%w: meal %s", pkg.ErrNotFound, mealID)
	}
	return meal, nil
}

func mealFromRequest(req *models.CustomMealRequest) *models.CustomMeal {
	return &models.CustomMeal{
		Name:        req.Name,
		Description: req.Description,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
		Fiber:       req.Fiber,
		Serving:     req.Serving,
		Ingredients: req.Ingredients,
		Category:    req.Category,
		MealTime:    req.MealTime,
		IsPublic:    req.IsPublic,
	}
}
