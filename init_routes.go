// Package main: HTTP route registration.
//
// Route sıralama notu: Go 1.22 ServeMux en spesifik pattern'i seçer,
// "/api/friends/search" ile "/api/friends/{id}" farklı metodlarda olduğu
// için çakışmaz.
package main

import (
	"net/http"

	"github.com/akinalp/healthy/config"
	"github.com/akinalp/healthy/middleware"
	"github.com/akinalp/healthy/repository"
	"github.com/akinalp/healthy/services"
	"github.com/rs/cors"
)

// buildHTTPHandler, route'ları kurar ve mux'ı IP limiter + CORS ile sarar.
func buildHTTPHandler(
	cfg *config.Config,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
	limiters *RateLimiters,
) http.Handler {
	mux := http.NewServeMux()
	initRoutes(mux, h, authService, userRepo)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	// CORS en dışta: preflight istekleri IP bütçesinden düşmez
	return corsHandler.Handler(middleware.IPRateLimit(limiters.API)(mux))
}

func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
) {
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}

	mux.HandleFunc("GET /api/health", h.Health.Check)

	// ─── Auth ───
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.Handle("POST /api/auth/logout", auth(h.Auth.Logout))
	mux.Handle("GET /api/auth/me", auth(h.Auth.Me))
	mux.Handle("PUT /api/auth/upgrade", auth(h.Auth.Upgrade))

	// ─── Profile ───
	mux.Handle("GET /api/profile", auth(h.Profile.Get))
	mux.Handle("PUT /api/profile", auth(h.Profile.Update))
	mux.Handle("PUT /api/profile/reminders", auth(h.Profile.UpdateReminders))

	// ─── Friends ───
	mux.Handle("GET /api/friends", auth(h.Friendship.ListFriends))
	mux.Handle("GET /api/friends/search", auth(h.Friendship.Search))
	mux.Handle("GET /api/friends/requests", auth(h.Friendship.ListIncoming))
	mux.Handle("GET /api/friends/sent", auth(h.Friendship.ListSent))
	mux.Handle("POST /api/friends/request", auth(h.Friendship.SendRequest))
	mux.Handle("PUT /api/friends/request/{id}/accept", auth(h.Friendship.AcceptRequest))
	mux.Handle("PUT /api/friends/request/{id}/decline", auth(h.Friendship.DeclineRequest))
	mux.Handle("DELETE /api/friends/{id}", auth(h.Friendship.RemoveFriend))

	// ─── Messages ───
	mux.Handle("GET /api/messages/conversations", auth(h.DM.ListConversations))
	mux.Handle("GET /api/messages/dm/{userId}", auth(h.DM.GetThread))
	mux.Handle("POST /api/messages/dm/{userId}", auth(h.DM.Send))
	mux.Handle("GET /api/messages/groups", auth(h.Group.List))
	mux.Handle("POST /api/messages/groups", auth(h.Group.Create))
	mux.Handle("GET /api/messages/groups/{id}/messages", auth(h.Group.GetMessages))
	mux.Handle("POST /api/messages/groups/{id}/messages", auth(h.Group.Send))
	mux.Handle("POST /api/messages/groups/{id}/join", auth(h.Group.Join))
	mux.Handle("DELETE /api/messages/groups/{id}/leave", auth(h.Group.Leave))

	// ─── Social feed ───
	mux.Handle("GET /api/social/feed", auth(h.Feed.Feed))
	mux.Handle("POST /api/social/post", auth(h.Feed.CreatePost))
	mux.Handle("DELETE /api/social/post/{id}", auth(h.Feed.DeletePost))
	mux.Handle("PUT /api/social/post/{id}/like", auth(h.Feed.ToggleLike))
	mux.Handle("POST /api/social/post/{id}/comment", auth(h.Feed.AddComment))
	mux.Handle("DELETE /api/social/post/{postId}/comment/{commentId}", auth(h.Feed.DeleteComment))
	mux.Handle("POST /api/social/post/{postId}/comment/{commentId}/reply", auth(h.Feed.AddReply))

	// ─── Progress ───
	mux.Handle("GET /api/progress", auth(h.Progress.List))
	mux.Handle("POST /api/progress", auth(h.Progress.Log))
	mux.Handle("DELETE /api/progress/{id}", auth(h.Progress.Delete))

	// ─── Custom meals ───
	// "/public" literal segmenti "{id}" wildcard'ından daha spesifik, çakışmaz
	mux.Handle("GET /api/custom-meals", auth(h.CustomMeal.ListMine))
	mux.Handle("GET /api/custom-meals/public", auth(h.CustomMeal.SearchPublic))
	mux.Handle("POST /api/custom-meals", auth(h.CustomMeal.Create))
	mux.Handle("PUT /api/custom-meals/{id}", auth(h.CustomMeal.Update))
	mux.Handle("DELETE /api/custom-meals/{id}", auth(h.CustomMeal.Delete))

	// WebSocket: tarayıcılar upgrade isteğine header ekleyemez, token query'de gelir:
	//   ws://server/ws?token=JWT
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
