// Package main, healthy backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi: Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embed migration'lar)
//  3. Repository'leri oluştur
//  4. WebSocket Hub'ı başlat
//  5. Service'leri ve rate limiter'ları oluştur
//  6. Demo hesaplarını seed et
//  7. Handler'ları ve route'ları bağla
//  8. HTTP Server'ı başlat, graceful shutdown
//
// Global değişken YOK: her şey burada oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akinalp/healthy/config"
	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/repository"
	"github.com/akinalp/healthy/services"
	"github.com/akinalp/healthy/ws"
)

// sessionCleanupInterval, süresi dolmuş refresh oturumlarının silinme sıklığı.
const sessionCleanupInterval = time.Hour

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] healthy server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	db, err := database.New(cfg.Database.Path, database.Migrations())
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 4. WebSocket Hub ───
	hub := ws.NewHub()

	// ─── 5. Service Layer ───
	svcs, limiters := initServices(db.Conn, repos, hub, cfg)
	defer limiters.Close()

	registerHubCallbacks(hub, svcs.Friendship, repos.Group)
	go hub.Run()

	// ─── 6. Demo seed ───
	if cfg.Seed.DemoAccounts {
		if _, err := services.SeedDemoAccounts(context.Background(), repos.User); err != nil {
			log.Fatalf("[main] failed to seed demo accounts: %v", err)
		}
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go cleanupSessions(bgCtx, repos.Session)

	// ─── 7. Handlers + Routes ───
	h := initHandlers(db.Conn, svcs, limiters, hub, cfg)

	handler := buildHTTPHandler(cfg, h, svcs.Auth, repos.User, limiters)

	// ─── 8. HTTP Server ───
	// WriteTimeout yok: WebSocket bağlantıları uzun ömürlü.
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket bağlantıları, sonra HTTP server (5sn timeout).
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}

// cleanupSessions, süresi dolmuş refresh oturumlarını periyodik olarak siler.
func cleanupSessions(ctx context.Context, sessions repository.SessionRepository) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				log.Printf("[main] session cleanup failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[main] removed %d expired sessions", n)
			}
		}
	}
}
