// Package handlers: FriendshipHandler: arkadaşlık HTTP endpoint'leri.
//
// Route'lar (init_routes.go'da bağlanır):
//
//	GET    /api/friends                        → ListFriends
//	GET    /api/friends/search?q=              → Search
//	GET    /api/friends/requests               → ListIncoming
//	GET    /api/friends/sent                   → ListSent
//	POST   /api/friends/request                → SendRequest
//	PUT    /api/friends/request/{id}/accept    → AcceptRequest
//	PUT    /api/friends/request/{id}/decline   → DeclineRequest
//	DELETE /api/friends/{id}                   → RemoveFriend
package handlers

import (
	"net/http"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/services"
)

// FriendshipHandler, arkadaşlık endpoint'lerini yöneten struct.
type FriendshipHandler struct {
	friendService services.FriendshipService
}

// NewFriendshipHandler, constructor.
func NewFriendshipHandler(friendService services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendService: friendService}
}

func (h *FriendshipHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, friends)
}

func (h *FriendshipHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	results, err := h.friendService.Search(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, results)
}

// ListIncoming godoc
// GET /api/friends/requests
// Kullanıcıya gelen bekleyen istekler, gönderen bilgisiyle.
func (h *FriendshipHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	requests, err := h.friendService.ListIncoming(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, requests)
}

func (h *FriendshipHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	requests, err := h.friendService.ListSent(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, requests)
}

// SendRequest godoc
// POST /api/friends/request
// Body: { "email": "..." }
func (h *FriendshipHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.SendFriendRequestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	request, err := h.friendService.SendRequest(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, request)
}

func (h *FriendshipHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	friend, err := h.friendService.AcceptRequest(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, friend)
}

// DeclineRequest godoc
// PUT /api/friends/request/{id}/decline
// Eşleşen pending istek yoksa da 200 döner.
func (h *FriendshipHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.friendService.DeclineRequest(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "friend request declined"})
}

func (h *FriendshipHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.friendService.RemoveFriend(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "friend removed"})
}
