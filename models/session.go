package models

import "time"

// Session, refresh token oturumu.
//
// Access token kısa ömürlüdür (15dk), refresh token 7 gün yaşar.
// Refresh token'lar DB'de tutulur ki logout'ta iptal edilebilsin;
// her refresh'te eski oturum silinip yenisi açılır (rotation).
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
