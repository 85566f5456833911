// Package config, uygulamanın tüm konfigürasyonunu environment variable'lardan
// okur. Geliştirme ortamında .env dosyası da desteklenir.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite ayarları.
type DatabaseConfig struct {
	Path string // ör: ./data/healthy.db
}

// JWTConfig, token ayarları.
type JWTConfig struct {
	Secret             string // GİZLİ TUTULMALI
	AccessTokenExpiry  int    // dakika
	RefreshTokenExpiry int    // gün
}

// CORSConfig, izin verilen frontend origin'leri.
type CORSConfig struct {
	AllowedOrigins []string
}

// EmailConfig, Resend ayarları. APIKey boşsa e-posta bildirimleri kapalıdır.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
	AppURL       string
}

// Enabled, e-posta gönderiminin yapılandırılıp yapılandırılmadığını döner.
func (c EmailConfig) Enabled() bool {
	return c.ResendAPIKey != ""
}

// RateLimitConfig, tüm limiter bütçeleri.
type RateLimitConfig struct {
	APIMax    int
	APIWindow time.Duration

	LoginMax    int
	LoginWindow time.Duration

	MessageMax      int
	MessageWindow   time.Duration
	MessageCooldown time.Duration

	PostMax    int
	PostWindow time.Duration
}

// SeedConfig, demo hesaplarının ilk açılışta oluşturulup oluşturulmayacağı.
type SeedConfig struct {
	DemoAccounts bool
}

// Load, environment variable'lardan Config oluşturur.
func Load() (*Config, error) {
	// .env yoksa sessizce devam: production'da gerçek env kullanılır
	_ = godotenv.Load()

	port, err := getInt("SERVER_PORT", 5000)
	if err != nil {
		return nil, err
	}

	accessExpiry, err := getInt("JWT_ACCESS_EXPIRY_MINUTES", 15)
	if err != nil {
		return nil, err
	}

	refreshExpiry, err := getInt("JWT_REFRESH_EXPIRY_DAYS", 7)
	if err != nil {
		return nil, err
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	rl, err := loadRateLimits()
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseBool(getEnv("SEED_DEMO_ACCOUNTS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO_ACCOUNTS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/healthy.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("FRONTEND_URL", "http://localhost:3000")),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("RESEND_FROM", "noreply@healthy.app"),
			AppURL:       strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		},
		RateLimit: rl,
		Seed:      SeedConfig{DemoAccounts: seed},
	}

	return cfg, nil
}

func loadRateLimits() (RateLimitConfig, error) {
	var rl RateLimitConfig
	var err error

	if rl.APIMax, err = getInt("RATE_LIMIT_API_MAX", 200); err != nil {
		return rl, err
	}
	if rl.APIWindow, err = getDuration("RATE_LIMIT_API_WINDOW", 15*time.Minute); err != nil {
		return rl, err
	}
	if rl.LoginMax, err = getInt("RATE_LIMIT_LOGIN_MAX", 5); err != nil {
		return rl, err
	}
	if rl.LoginWindow, err = getDuration("RATE_LIMIT_LOGIN_WINDOW", 2*time.Minute); err != nil {
		return rl, err
	}
	if rl.MessageMax, err = getInt("RATE_LIMIT_MESSAGE_MAX", 5); err != nil {
		return rl, err
	}
	if rl.MessageWindow, err = getDuration("RATE_LIMIT_MESSAGE_WINDOW", 5*time.Second); err != nil {
		return rl, err
	}
	if rl.MessageCooldown, err = getDuration("RATE_LIMIT_MESSAGE_COOLDOWN", 15*time.Second); err != nil {
		return rl, err
	}
	if rl.PostMax, err = getInt("RATE_LIMIT_POST_MAX", 10); err != nil {
		return rl, err
	}
	if rl.PostWindow, err = getDuration("RATE_LIMIT_POST_WINDOW", time.Minute); err != nil {
		return rl, err
	}

	if rl.APIMax < 1 || rl.LoginMax < 1 || rl.MessageMax < 1 || rl.PostMax < 1 {
		return rl, fmt.Errorf("rate limit maximums must be positive")
	}
	return rl, nil
}

// Addr, HTTP server'ın dinleyeceği adres (ör: "0.0.0.0:5000").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// getDuration, "15m", "5s" gibi Go duration string'lerini okur.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// splitList, virgülle ayrılmış listeyi boşlukları kırparak böler.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
