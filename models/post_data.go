package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/akinalp/healthy/pkg"
)

// PostType, gönderi kategorisi. Payload şekli tipe göre değişir.
type PostType string

const (
	PostTypeWeightUpdate   PostType = "weight_update"
	PostTypeMealPlan       PostType = "meal_plan"
	PostTypeCustomMeal     PostType = "custom_meal"
	PostTypeCalorieLog     PostType = "calorie_log"
	PostTypeWorkoutLog     PostType = "workout_log"
	PostTypeProgressUpdate PostType = "progress_update"
)

// PostData, tipe bağlı gönderi payload'ı (tagged union).
// Her payload struct'ı kendi PostType'ını döner.
type PostData interface {
	PostType() PostType
}

// WeightUpdateData: kilo güncellemesi.
type WeightUpdateData struct {
	Weight float64 `json:"weight"`
	Change float64 `json:"change"`
}

// MealPlanData: paylaşılan yemek planı. Günler ve öğünler plan üreticisine
// ait yapılar olduğu için opak JSON olarak taşınır.
type MealPlanData struct {
	Title         string            `json:"title"`
	PlanType      string            `json:"plan_type"`
	TotalCalories float64           `json:"total_calories"`
	Days          []json.RawMessage `json:"days,omitempty"`
	Meals         []json.RawMessage `json:"meals,omitempty"`
}

// CustomMealData: kullanıcının kendi tarifi.
type CustomMealData struct {
	MealID      string   `json:"meal_id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Fiber       float64  `json:"fiber"`
	Ingredients []string `json:"ingredients,omitempty"`
	Category    string   `json:"category,omitempty"`
	Serving     string   `json:"serving,omitempty"`
}

// LoggedMeal, kalori günlüğündeki tek öğün.
type LoggedMeal struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// CalorieLogData: günlük kalori özeti.
type CalorieLogData struct {
	Calories float64      `json:"calories"`
	Goal     float64      `json:"goal"`
	Meals    []LoggedMeal `json:"meals,omitempty"`
}

// WorkoutLogData: antrenman kaydı. Duration dakika cinsindendir.
type WorkoutLogData struct {
	Workout   string  `json:"workout"`
	Duration  float64 `json:"duration"`
	Calories  float64 `json:"calories"`
	Intensity string  `json:"intensity,omitempty"`
}

// ProgressUpdateData: vücut ölçümü güncellemesi.
type ProgressUpdateData struct {
	Weight     *float64 `json:"weight,omitempty"`
	BodyFat    *float64 `json:"body_fat,omitempty"`
	MuscleMass *float64 `json:"muscle_mass,omitempty"`
	Note       string   `json:"note,omitempty"`
}

func (WeightUpdateData) PostType() PostType   { return PostTypeWeightUpdate }
func (MealPlanData) PostType() PostType       { return PostTypeMealPlan }
func (CustomMealData) PostType() PostType     { return PostTypeCustomMeal }
func (CalorieLogData) PostType() PostType     { return PostTypeCalorieLog }
func (WorkoutLogData) PostType() PostType     { return PostTypeWorkoutLog }
func (ProgressUpdateData) PostType() PostType { return PostTypeProgressUpdate }

// newPostData, tip için boş payload döner; bilinmeyen tipte nil.
func newPostData(t PostType) PostData {
	switch t {
	case PostTypeWeightUpdate:
		return &WeightUpdateData{}
	case PostTypeMealPlan:
		return &MealPlanData{}
	case PostTypeCustomMeal:
		return &CustomMealData{}
	case PostTypeCalorieLog:
		return &CalorieLogData{}
	case PostTypeWorkoutLog:
		return &WorkoutLogData{}
	case PostTypeProgressUpdate:
		return &ProgressUpdateData{}
	}
	return nil
}

// ValidPostType, t'nin bilinen bir gönderi tipi olup olmadığını döner.
func ValidPostType(t PostType) bool {
	return newPostData(t) != nil
}

// DecodePostData, ham JSON'u tipin payload struct'ına çözer.
// Boş ya da null payload o tipin sıfır değerini verir.
// Bilinmeyen tip veya tipe uymayan JSON validation hatasıdır.
func DecodePostData(t PostType, raw json.RawMessage) (PostData, error) {
	data := newPostData(t)
	if data == nil {
		return nil, fmt.Errorf("%w: unknown post type %q", pkg.ErrBadRequest, t)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return data, nil
	}

	if err := json.Unmarshal(trimmed, data); err != nil {
		return nil, fmt.Errorf("%w: invalid %s data: %v", pkg.ErrBadRequest, t, err)
	}
	return data, nil
}
