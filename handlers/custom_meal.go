package handlers

import (
	"net/http"
	"strings"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/services"
)

// CustomMealHandler, kullanıcı tarifleri (/api/custom-meals/...).
type CustomMealHandler struct {
	mealService services.CustomMealService
}

// NewCustomMealHandler, constructor.
func NewCustomMealHandler(mealService services.CustomMealService) *CustomMealHandler {
	return &CustomMealHandler{mealService: mealService}
}

// ListMine godoc
// GET /api/custom-meals
func (h *CustomMealHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	meals, err := h.mealService.ListMine(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, meals)
}

// SearchPublic godoc
// GET /api/custom-meals/public?q=&limit=
func (h *CustomMealHandler) SearchPublic(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	meals, err := h.mealService.SearchPublic(r.Context(), query, queryInt(r, "limit", models.DefaultPublicMealLimit))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, meals)
}

// Create godoc
// POST /api/custom-meals
func (h *CustomMealHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CustomMealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	meal, err := h.mealService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, meal)
}

// Update godoc
// PUT /api/custom-meals/{id}
func (h *CustomMealHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CustomMealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	meal, err := h.mealService.Update(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, meal)
}

func (h *CustomMealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.mealService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "meal deleted"})
}
