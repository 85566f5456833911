package models

import (
	"fmt"

	"github.com/akinalp/healthy/pkg"
)

// Profile, kullanıcının beslenme profili. Tüm alanlar opsiyoneldir;
// users.profile kolonunda JSON olarak saklanır.
type Profile struct {
	Age           *int     `json:"age,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	TargetWeight  *float64 `json:"target_weight,omitempty"`
	ActivityLevel string   `json:"activity_level,omitempty"`
	Goal          string   `json:"goal,omitempty"`

	BudgetAmount *float64 `json:"budget_amount,omitempty"`
	BudgetPeriod string   `json:"budget_period,omitempty"`
	Currency     string   `json:"currency,omitempty"`

	// Premium alanlar
	Allergies           []string `json:"allergies,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	CuisinePreferences  []string `json:"cuisine_preferences,omitempty"`
	Budget              string   `json:"budget,omitempty"`
	Region              string   `json:"region,omitempty"`
	FitnessActivities   []string `json:"fitness_activities,omitempty"`
}

// Reminders, hatırlatıcı bayrakları.
type Reminders struct {
	WaterReminder    bool `json:"water_reminder"`
	MealReminders    bool `json:"meal_reminders"`
	WorkoutReminders bool `json:"workout_reminders"`
}

var (
	genders        = []string{"male", "female", "other"}
	activityLevels = []string{"sedentary", "light", "moderate", "active", "very_active"}
	goals          = []string{"lose_weight", "maintain", "gain_muscle", "improve_health"}
	budgetPeriods  = []string{"day", "week", "month"}
	currencies     = []string{"PHP", "USD"}
	budgetTiers    = []string{"budget", "moderate", "premium"}
)

// Validate, enum alanlarını ve yaş aralığını kontrol eder. Boş alanlar geçerlidir.
func (p *Profile) Validate() error {
	if p.Age != nil && (*p.Age < 1 || *p.Age > 120) {
		return fmt.Errorf("%w: age must be between 1 and 120", pkg.ErrBadRequest)
	}

	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"gender", p.Gender, genders},
		{"activity_level", p.ActivityLevel, activityLevels},
		{"goal", p.Goal, goals},
		{"budget_period", p.BudgetPeriod, budgetPeriods},
		{"currency", p.Currency, currencies},
		{"budget", p.Budget, budgetTiers},
	}
	for _, c := range checks {
		if c.value != "" && !contains(c.allowed, c.value) {
			return fmt.Errorf("%w: invalid %s %q", pkg.ErrBadRequest, c.field, c.value)
		}
	}
	return nil
}

// UpdateProfileRequest, PUT /api/profile body'si.
type UpdateProfileRequest struct {
	Profile Profile `json:"profile"`
}

// UpdateRemindersRequest, PUT /api/profile/reminders body'si.
type UpdateRemindersRequest struct {
	Reminders Reminders `json:"reminders"`
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
