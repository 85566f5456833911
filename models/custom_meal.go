package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akinalp/healthy/pkg"
)

// MealCategory, tarifin yemek türü.
type MealCategory string

const (
	MealCategoryBreakfast MealCategory = "breakfast"
	MealCategoryLunch     MealCategory = "lunch"
	MealCategoryDinner    MealCategory = "dinner"
	MealCategorySnack     MealCategory = "snack"
	MealCategoryBeverage  MealCategory = "beverage"
	MealCategoryOther     MealCategory = "other"
)

// MealTime, tarifin önerildiği öğün zamanı.
type MealTime string

const (
	MealTimeBreakfast      MealTime = "breakfast"
	MealTimeMorningSnack   MealTime = "morning_snack"
	MealTimeLunch          MealTime = "lunch"
	MealTimeAfternoonSnack MealTime = "afternoon_snack"
	MealTimeDinner         MealTime = "dinner"
	MealTimeAny            MealTime = "any"
)

const (
	MaxMealNameLength        = 100
	MaxMealDescriptionLength = 500
	MaxMealIngredients       = 50
	DefaultServing           = "1 serving"

	DefaultPublicMealLimit = 20
	MaxPublicMealLimit     = 50
)

var (
	mealCategories = []string{"breakfast", "lunch", "dinner", "snack", "beverage", "other"}
	mealTimes      = []string{"breakfast", "morning_snack", "lunch", "afternoon_snack", "dinner", "any"}
)

// CustomMeal, kullanıcının kendi tarifi. Owner yalnızca herkese açık
// aramada doldurulur.
type CustomMeal struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Owner       *PublicUser  `json:"owner,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Calories    *float64     `json:"calories,omitempty"`
	Protein     *float64     `json:"protein,omitempty"`
	Carbs       *float64     `json:"carbs,omitempty"`
	Fat         *float64     `json:"fat,omitempty"`
	Fiber       *float64     `json:"fiber,omitempty"`
	Serving     string       `json:"serving"`
	Ingredients []string     `json:"ingredients"`
	Category    MealCategory `json:"category"`
	MealTime    MealTime     `json:"meal_time"`
	IsPublic    bool         `json:"is_public"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CustomMealRequest, tarif oluşturma ve güncelleme body'si.
// Güncelleme PUT semantiğindedir: gönderilmeyen alanlar varsayılana döner.
type CustomMealRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Calories    *float64     `json:"calories"`
	Protein     *float64     `json:"protein"`
	Carbs       *float64     `json:"carbs"`
	Fat         *float64     `json:"fat"`
	Fiber       *float64     `json:"fiber"`
	Serving     string       `json:"serving"`
	Ingredients []string     `json:"ingredients"`
	Category    MealCategory `json:"category"`
	MealTime    MealTime     `json:"meal_time"`
	IsPublic    bool         `json:"is_public"`
}

// Validate, alanları trim'ler, varsayılanları uygular ve sınırları kontrol eder.
func (r *CustomMealRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("%w: meal name is required", pkg.ErrBadRequest)
	}
	if utf8.RuneCountInString(r.Name) > MaxMealNameLength {
		return fmt.Errorf("%w: meal name must be at most %d characters", pkg.ErrBadRequest, MaxMealNameLength)
	}

	r.Description = strings.TrimSpace(r.Description)
	if utf8.RuneCountInString(r.Description) > MaxMealDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", pkg.ErrBadRequest, MaxMealDescriptionLength)
	}

	fields := []string{"calories", "protein", "carbs", "fat", "fiber"}
	for i, v := range []*float64{r.Calories, r.Protein, r.Carbs, r.Fat, r.Fiber} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must not be negative", pkg.ErrBadRequest, fields[i])
		}
	}

	r.Serving = strings.TrimSpace(r.Serving)
	if r.Serving == "" {
		r.Serving = DefaultServing
	}

	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	if len(ingredients) > MaxMealIngredients {
		return fmt.Errorf("%w: at most %d ingredients allowed", pkg.ErrBadRequest, MaxMealIngredients)
	}
	r.Ingredients = ingredients

	if r.Category == "" {
		r.Category = MealCategoryOther
	}
	if !contains(mealCategories, string(r.Category)) {
		return fmt.Errorf("%w: invalid category %q", pkg.ErrBadRequest, r.Category)
	}

	if r.MealTime == "" {
		r.MealTime = MealTimeAny
	}
	if !contains(mealTimes, string(r.MealTime)) {
		return fmt.Errorf("%w: invalid meal_time %q", pkg.ErrBadRequest, r.MealTime)
	}
	return nil
}

// ClampPublicMealLimit, limit'i 1..50 aralığına çeker (0 → 20).
func ClampPublicMealLimit(limit int) int {
	if limit <= 0 {
		return DefaultPublicMealLimit
	}
	if limit > MaxPublicMealLimit {
		return MaxPublicMealLimit
	}
	return limit
}
