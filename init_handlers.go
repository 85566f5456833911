// Package main: Handler katmanı başlatma.
package main

import (
	"database/sql"

	"github.com/akinalp/healthy/config"
	"github.com/akinalp/healthy/handlers"
	"github.com/akinalp/healthy/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Profile    *handlers.ProfileHandler
	Friendship *handlers.FriendshipHandler
	DM         *handlers.DMHandler
	Group      *handlers.GroupHandler
	Feed       *handlers.FeedHandler
	Progress   *handlers.ProgressHandler
	CustomMeal *handlers.CustomMealHandler
	WS         *ws.Handler
}

func initHandlers(db *sql.DB, svcs *Services, limiters *RateLimiters, hub *ws.Hub, cfg *config.Config) *Handlers {
	return &Handlers{
		Health:     handlers.NewHealthHandler(db),
		Auth:       handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		Profile:    handlers.NewProfileHandler(svcs.User),
		Friendship: handlers.NewFriendshipHandler(svcs.Friendship),
		DM:         handlers.NewDMHandler(svcs.DM, limiters.Message),
		Group:      handlers.NewGroupHandler(svcs.Group, limiters.Message),
		Feed:       handlers.NewFeedHandler(svcs.Feed, limiters.Post),
		Progress:   handlers.NewProgressHandler(svcs.Progress),
		CustomMeal: handlers.NewCustomMealHandler(svcs.CustomMeal),
		WS:         ws.NewHandler(hub, svcs.Auth, cfg.CORS.AllowedOrigins),
	}
}
