package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akinalp/healthy/pkg"
)

const (
	MaxProgressNotesLength = 500

	DefaultProgressLimit = 30
	MaxProgressLimit     = 365
)

// ProgressEntry, ilerleme günlüğündeki bir kayıt. Ölçümler opsiyoneldir;
// girilmeyen alan nil kalır ve JSON'da hiç görünmez.
type ProgressEntry struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Date     time.Time `json:"date"`
	Weight   *float64  `json:"weight,omitempty"`
	Calories *float64  `json:"calories,omitempty"`
	Water    *float64  `json:"water,omitempty"` // bardak
	Protein  *float64  `json:"protein,omitempty"`
	Carbs    *float64  `json:"carbs,omitempty"`
	Fat      *float64  `json:"fat,omitempty"`
	Workout  *Workout  `json:"workout,omitempty"`
	Notes    string    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Workout, kayda bağlı antrenman özeti.
type Workout struct {
	Type           string   `json:"type,omitempty"`
	Duration       *float64 `json:"duration,omitempty"` // dakika
	CaloriesBurned *float64 `json:"calories_burned,omitempty"`
}

// CreateProgressRequest, POST /api/progress body'si. Date boşsa şu an kullanılır.
type CreateProgressRequest struct {
	Date     *time.Time `json:"date"`
	Weight   *float64   `json:"weight"`
	Calories *float64   `json:"calories"`
	Water    *float64   `json:"water"`
	Protein  *float64   `json:"protein"`
	Carbs    *float64   `json:"carbs"`
	Fat      *float64   `json:"fat"`
	Workout  *Workout   `json:"workout"`
	Notes    string     `json:"notes"`
}

// Validate, negatif ölçümleri ve uzun notları reddeder.
// Antrenmanın tüm alanları boşsa Workout nil'e çekilir.
func (r *CreateProgressRequest) Validate() error {
	type measure struct {
		field string
		value *float64
	}
	measures := []measure{
		{"weight", r.Weight},
		{"calories", r.Calories},
		{"water", r.Water},
		{"protein", r.Protein},
		{"carbs", r.Carbs},
		{"fat", r.Fat},
	}
	if r.Workout != nil {
		measures = append(measures,
			measure{"workout.duration", r.Workout.Duration},
			measure{"workout.calories_burned", r.Workout.CaloriesBurned},
		)
	}
	for _, m := range measures {
		if m.value != nil && *m.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", pkg.ErrBadRequest, m.field)
		}
	}

	r.Notes = strings.TrimSpace(r.Notes)
	if utf8.RuneCountInString(r.Notes) > MaxProgressNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", pkg.ErrBadRequest, MaxProgressNotesLength)
	}

	if r.Workout != nil {
		r.Workout.Type = strings.TrimSpace(r.Workout.Type)
		if r.Workout.Type == "" && r.Workout.Duration == nil && r.Workout.CaloriesBurned == nil {
			r.Workout = nil
		}
	}
	return nil
}

// ClampProgressLimit, limit'i 1..365 aralığına çeker (0 → 30).
func ClampProgressLimit(limit int) int {
	if limit <= 0 {
		return DefaultProgressLimit
	}
	if limit > MaxProgressLimit {
		return MaxProgressLimit
	}
	return limit
}
