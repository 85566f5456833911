// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model, veritabanındaki bir tablonun Go karşılığıdır; aynı zamanda API'den
// gelen/giden verilerin şeklini de belirler. Request struct'ları kendi
// Validate metodlarını taşır ve hataları pkg.ErrBadRequest ile wrap eder.
package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akinalp/healthy/pkg"
)

// User, kimlik dizinindeki bir hesabı temsil eder.
// Arkadaş listesi burada tutulmaz: friendships tablosundan türetilir.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // API response'a DAHİL ETME
	IsPremium    bool      `json:"is_premium"`
	Profile      Profile   `json:"profile"`
	Reminders    Reminders `json:"reminders"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser, başka kullanıcılara gösterilen kısaltılmış kimlik bilgisi.
// Arkadaş listeleri, feed yazarları ve grup üyeleri bu şekli kullanır.
type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	IsPremium bool   `json:"is_premium"`
}

// Public, User'dan PublicUser üretir.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsPremium: u.IsPremium,
	}
}

// RegisterRequest, kayıt olurken frontend'den gelen veri.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, RegisterRequest kontrolü.
// Email küçük harfe çevrilir: dizinde email her zaman lowercase saklanır.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < 1 || nameLen > 50 {
		return fmt.Errorf("%w: name must be between 1 and 50 characters", pkg.ErrBadRequest)
	}

	email, err := NormalizeEmail(r.Email)
	if err != nil {
		return err
	}
	r.Email = email

	if utf8.RuneCountInString(r.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", pkg.ErrBadRequest)
	}
	return nil
}

// LoginRequest, giriş yaparken frontend'den gelen veri.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, LoginRequest kontrolü.
func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("%w: email and password are required", pkg.ErrBadRequest)
	}
	return nil
}

// NormalizeEmail, email'i trim + lowercase yapar ve adres formatını doğrular.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", pkg.ErrBadRequest)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", pkg.ErrBadRequest)
	}
	return email, nil
}
