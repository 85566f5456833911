package repository

import (
	"context"

	"github.com/akinalp/healthy/models"
)

// MessageRepository, DM ve grup mesajları.
// Dönen mesajlarda SenderName doludur; ReadBy ReadStateRepository'den gelir.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListDirect, iki kullanıcı arasındaki son limit mesajı eskiden yeniye döner.
	ListDirect(ctx context.Context, a, b string, limit int) ([]models.Message, error)
	// ListGroup, grubun son limit mesajını eskiden yeniye döner.
	ListGroup(ctx context.Context, groupID string, limit int) ([]models.Message, error)
	// Conversations, viewer'ın DM yazıştığı her kişi için son mesajı ve
	// okunmamış sayısını döner; son mesaja göre yeniden eskiye sıralı.
	Conversations(ctx context.Context, viewerID string) ([]models.Conversation, error)
}

// ReadStateRepository, mesaj okundu kümesi (message_reads).
type ReadStateRepository interface {
	// MarkDirectRead, sender → reader yönündeki tüm DM'leri reader için
	// okundu işaretler. Sadece bu çağrıda yeni eklenen mesaj ID'lerini döner;
	// tekrar çağrı no-op'tur.
	MarkDirectRead(ctx context.Context, readerID, senderID string) ([]string, error)
	// ReadersOf, mesaj ID'si → okuyan kullanıcı ID'leri (okunma sırasıyla).
	ReadersOf(ctx context.Context, messageIDs []string) (map[string][]string, error)
}
