package repository

import (
	"context"

	"github.com/akinalp/healthy/models"
)

// FriendshipRepository, arkadaşlık istekleri ve arkadaşlık çiftleri.
//
// İki tablo kullanılır:
//   - friend_requests: istek geçmişi. Sırasız çift başına en fazla bir
//     pending kayıt partial unique index ile garanti edilir.
//   - friendships: çift başına tek satır (user_low < user_high). Arkadaş
//     listesi her iki yönde bu tablodan türetilir.
type FriendshipRepository interface {
	// CreateRequest, pending istek ekler. Çift için zaten pending istek
	// varsa pkg.ErrDuplicatePending döner (unique index ihlali).
	CreateRequest(ctx context.Context, req *models.FriendRequest) error

	GetRequestByID(ctx context.Context, id string) (*models.FriendRequest, error)

	// HasPendingBetween, iki kullanıcı arasında herhangi bir yönde pending istek var mı.
	HasPendingBetween(ctx context.Context, a, b string) (bool, error)

	// ResolveRequest, recipient'a gelen pending isteğin durumunu değiştirir.
	// Koşullu UPDATE'tir: istek pending değilse veya alıcı farklıysa
	// hiçbir şey değişmez ve false döner.
	ResolveRequest(ctx context.Context, id, recipientID string, status models.FriendRequestStatus) (bool, error)

	// ListIncoming, kullanıcıya gelen pending istekler (User = gönderen).
	ListIncoming(ctx context.Context, userID string) ([]models.FriendRequestWithUser, error)
	// ListSent, kullanıcının gönderdiği pending istekler (User = alıcı).
	ListSent(ctx context.Context, userID string) ([]models.FriendRequestWithUser, error)
	// PendingRecipientIDs, kullanıcının pending istek gönderdiği kişiler.
	PendingRecipientIDs(ctx context.Context, userID string) ([]string, error)

	// AddFriendship, çifti ekler. Zaten arkadaşlarsa no-op.
	AddFriendship(ctx context.Context, a, b string) error
	// RemoveFriendship, çifti siler; silinen satır varsa true.
	RemoveFriendship(ctx context.Context, a, b string) (bool, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]models.Friend, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}
