package handlers

import (
	"net/http"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/pkg/ratelimit"
	"github.com/akinalp/healthy/services"
)

// FeedHandler, sosyal akış endpoint'leri (/api/social/...).
type FeedHandler struct {
	feedService services.FeedService
	postLimiter *ratelimit.WindowLimiter
}

// NewFeedHandler, constructor.
func NewFeedHandler(feedService services.FeedService, postLimiter *ratelimit.WindowLimiter) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		postLimiter: postLimiter,
	}
}

// Feed godoc
// GET /api/social/feed?page=&limit=
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", models.DefaultFeedLimit)

	feed, err := h.feedService.Feed(r.Context(), user.ID, page, limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, feed)
}

// CreatePost godoc
// POST /api/social/post
// Body: { "type", "content", "data": { ... }, "visibility" }
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if !allowOrReject(w, h.postLimiter, user.ID, "posts") {
		return
	}

	var req models.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.feedService.CreatePost(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, post)
}

func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.feedService.DeletePost(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// ToggleLike godoc
// PUT /api/social/post/{id}/like
// Response: { "likes": n, "liked": bool }
func (h *FeedHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.feedService.ToggleLike(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// AddComment godoc
// POST /api/social/post/{id}/comment
// Response: gönderinin güncel yorum listesi.
func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comments, err := h.feedService.AddComment(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, comments)
}

func (h *FeedHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	comments, err := h.feedService.DeleteComment(r.Context(), user.ID, r.PathValue("postId"), r.PathValue("commentId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, comments)
}

// AddReply godoc
// POST /api/social/post/{postId}/comment/{commentId}/reply
func (h *FeedHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comments, err := h.feedService.AddReply(r.Context(), user.ID, r.PathValue("postId"), r.PathValue("commentId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, comments)
}
