package handlers

import (
	"net/http"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/pkg/ratelimit"
	"github.com/akinalp/healthy/services"
)

// GroupHandler, grup sohbeti endpoint'leri.
type GroupHandler struct {
	groupService   services.GroupService
	messageLimiter *ratelimit.WindowLimiter
}

// NewGroupHandler, constructor.
func NewGroupHandler(groupService services.GroupService, messageLimiter *ratelimit.WindowLimiter) *GroupHandler {
	return &GroupHandler{
		groupService:   groupService,
		messageLimiter: messageLimiter,
	}
}

// List godoc
// GET /api/messages/groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	groups, err := h.groupService.ListMine(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, groups)
}

// Create godoc
// POST /api/messages/groups
// Body: { "name", "description", "emoji", "member_ids": [...] }
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	group, err := h.groupService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, group)
}

// GetMessages godoc
// GET /api/messages/groups/{id}/messages?limit=
func (h *GroupHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", models.DefaultThreadLimit)
	thread, err := h.groupService.FetchThread(r.Context(), user.ID, r.PathValue("id"), limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, thread)
}

// Send godoc
// POST /api/messages/groups/{id}/messages
func (h *GroupHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if !allowOrReject(w, h.messageLimiter, user.ID, "messages") {
		return
	}

	var req models.SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.groupService.Send(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, msg)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	group, err := h.groupService.Join(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.groupService.Leave(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "left group"})
}
