package repository

import (
	"context"

	"github.com/akinalp/healthy/models"
)

// SessionRepository, refresh token oturumları için interface.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	// GetByRefreshToken, bulunamazsa pkg.ErrNotFound döner.
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByRefreshToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
