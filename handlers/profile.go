package handlers

import (
	"net/http"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/services"
)

// ProfileHandler, kullanıcının kendi profil ve hatırlatıcı ayarları.
type ProfileHandler struct {
	userService services.UserService
}

// NewProfileHandler, constructor.
func NewProfileHandler(userService services.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// Get godoc
// GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]any{
		"profile":   user.Profile,
		"reminders": user.Reminders,
	})
}

// Update godoc
// PUT /api/profile
// Body: { "profile": { ... } }
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, req.Profile)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}

// UpdateReminders godoc
// PUT /api/profile/reminders
// Body: { "reminders": { ... } }
func (h *ProfileHandler) UpdateReminders(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateRemindersRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.userService.UpdateReminders(r.Context(), user.ID, req.Reminders)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}
