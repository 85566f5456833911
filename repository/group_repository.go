package repository

import (
	"context"

	"github.com/akinalp/healthy/models"
)

// GroupRepository, grup sohbetleri ve üyelikleri.
type GroupRepository interface {
	// Create, grubu, üyeleri (verilen sırayla) ve admin'leri ekler.
	// Tutarlılık için transaction içinde kurulmuş bir repo ile çağrılmalıdır.
	Create(ctx context.Context, group *models.Group, memberIDs, adminIDs []string) error
	// GetByID, grubu üyeleri ve admin'leriyle döner. Yoksa pkg.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Group, error)
	Exists(ctx context.Context, id string) (bool, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	// AddMember, idempotent ekleme; üyelik değiştiyse true ve updated_at güncellenir.
	AddMember(ctx context.Context, groupID, userID string) (bool, error)
	// RemoveMember, idempotent silme; üyelik değiştiyse true ve updated_at güncellenir.
	RemoveMember(ctx context.Context, groupID, userID string) (bool, error)
	// ListByMember, kullanıcının üye olduğu gruplar, updated_at'e göre yeniden eskiye.
	ListByMember(ctx context.Context, userID string) ([]models.Group, error)
}
