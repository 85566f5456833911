package handlers

import (
	"net/http"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/pkg/ratelimit"
	"github.com/akinalp/healthy/services"
)

// DMHandler, birebir mesaj endpoint'leri.
type DMHandler struct {
	dmService      services.DMService
	messageLimiter *ratelimit.WindowLimiter
}

// NewDMHandler, constructor. messageLimiter grup mesajlarıyla paylaşılır,
// böylece kullanıcı başına toplam mesaj hızı sınırlanır.
func NewDMHandler(dmService services.DMService, messageLimiter *ratelimit.WindowLimiter) *DMHandler {
	return &DMHandler{
		dmService:      dmService,
		messageLimiter: messageLimiter,
	}
}

// ListConversations godoc
// GET /api/messages/conversations
func (h *DMHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	conversations, err := h.dmService.ListConversations(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, conversations)
}

// GetThread godoc
// GET /api/messages/dm/{userId}?limit=
// Thread'i açmak karşı taraftan gelen mesajları okundu işaretler.
func (h *DMHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", models.DefaultThreadLimit)
	messages, err := h.dmService.FetchThread(r.Context(), user.ID, r.PathValue("userId"), limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, messages)
}

// Send godoc
// POST /api/messages/dm/{userId}
// Body: { "text": "..." }
func (h *DMHandler) Send(w http.ResponseWriter, r *http.Request) {
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

	msg, err := h.dmService.Send(r.Context(), user.ID, r.PathValue("userId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, msg)
}
