// Package main: Service katmanı başlatma.
//
// Sıralama: FriendshipService, DM/Group/Feed service'lerinden ÖNCE
// oluşturulmalı; üçü de arkadaş kümesini ondan okur. Feed ayrıca
// custom_meal gönderilerini doğrulamak için CustomMealService'e bağlıdır.
package main

import (
	"database/sql"
	"log"

	"github.com/akinalp/healthy/config"
	"github.com/akinalp/healthy/pkg/email"
	"github.com/akinalp/healthy/pkg/ratelimit"
	"github.com/akinalp/healthy/services"
	"github.com/akinalp/healthy/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Friendship services.FriendshipService
	DM         services.DMService
	Group      services.GroupService
	Feed       services.FeedService
	Progress   services.ProgressService
	CustomMeal services.CustomMealService
}

// RateLimiters, tüm rate limiter instance'larını tutan container.
type RateLimiters struct {
	API     *ratelimit.IPLimiter
	Login   *ratelimit.WindowLimiter
	Message *ratelimit.WindowLimiter
	Post    *ratelimit.WindowLimiter
}

// Close, limiter'ların temizleme goroutine'lerini durdurur.
func (l *RateLimiters) Close() {
	l.API.Close()
	l.Login.Close()
	l.Message.Close()
	l.Post.Close()
}

func initServices(db *sql.DB, repos *Repositories, hub ws.EventPublisher, cfg *config.Config) (*Services, *RateLimiters) {
	// E-posta opsiyonel: RESEND_API_KEY yoksa notifier nil kalır
	var notifier email.Notifier
	if cfg.Email.Enabled() {
		notifier = email.NewResendNotifier(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
		log.Printf("[main] email notifications enabled (from=%s)", cfg.Email.FromEmail)
	} else {
		log.Println("[main] RESEND_API_KEY not set, email notifications disabled")
	}

	authService := services.NewAuthService(
		repos.User,
		repos.Session,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	friendshipService := services.NewFriendshipService(db, repos.Friendship, repos.User, hub, notifier)
	customMealService := services.NewCustomMealService(repos.CustomMeal)

	svcs := &Services{
		Auth:       authService,
		User:       services.NewUserService(repos.User),
		Friendship: friendshipService,
		DM:         services.NewDMService(repos.Message, repos.ReadState, repos.User, friendshipService, hub),
		Group:      services.NewGroupService(db, repos.Group, repos.Message, repos.User, friendshipService, hub),
		Feed:       services.NewFeedService(db, repos.Post, repos.Like, repos.Comment, repos.User, friendshipService, customMealService, hub),
		Progress:   services.NewProgressService(repos.Progress),
		CustomMeal: customMealService,
	}

	rl := cfg.RateLimit
	limiters := &RateLimiters{
		API:     ratelimit.NewIPLimiter(rl.APIMax, rl.APIWindow),
		Login:   ratelimit.NewWindowLimiter(rl.LoginMax, rl.LoginWindow, 0),
		Message: ratelimit.NewWindowLimiter(rl.MessageMax, rl.MessageWindow, rl.MessageCooldown),
		Post:    ratelimit.NewWindowLimiter(rl.PostMax, rl.PostWindow, 0),
	}

	return svcs, limiters
}
