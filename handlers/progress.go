package handlers

import (
	"net/http"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/services"
)

// ProgressHandler, ilerleme günlüğü endpoint'leri.
type ProgressHandler struct {
	progressService services.ProgressService
}

// NewProgressHandler, constructor.
func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Log godoc
// POST /api/progress
// Body: { "date"?, "weight"?, "calories"?, "water"?, "protein"?, "carbs"?, "fat"?, "workout"?, "notes"? }
func (h *ProgressHandler) Log(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateProgressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.progressService.Log(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, entry)
}

// List godoc
// GET /api/progress?limit=
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	entries, err := h.progressService.List(r.Context(), user.ID, queryInt(r, "limit", models.DefaultProgressLimit))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, entries)
}

func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.progressService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "entry deleted"})
}
