package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/pkg/email"
	"github.com/akinalp/healthy/repository"
	"github.com/akinalp/healthy/ws"
	"github.com/google/uuid"
)

const (
	minSearchLength = 2
	searchLimit     = 10
	friendCacheTTL  = time.Minute
)

// FriendshipService, arkadaşlık iş akışı.
//
// İstek yaşam döngüsü: pending → accepted | declined.
// Arkadaşlık tek satırlık sırasız bir çifttir; iki yönde de aynı sonucu verir.
type FriendshipService interface {
	SendRequest(ctx context.Context, senderID string, req *models.SendFriendRequestRequest) (*models.FriendRequestWithUser, error)
	AcceptRequest(ctx context.Context, recipientID, requestID string) (*models.Friend, error)
	DeclineRequest(ctx context.Context, recipientID, requestID string) error
	RemoveFriend(ctx context.Context, userID, otherID string) error

	ListIncoming(ctx context.Context, userID string) ([]models.FriendRequestWithUser, error)
	ListSent(ctx context.Context, userID string) ([]models.FriendRequestWithUser, error)
	ListFriends(ctx context.Context, userID string) ([]models.Friend, error)
	Search(ctx context.Context, userID, query string) ([]models.UserSearchResult, error)

	// FriendIDs ve AreFriends, DM/grup/feed servislerinin kullandığı cache'li sorgular.
	FriendIDs(ctx context.Context, userID string) ([]string, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

type friendshipService struct {
	db             *sql.DB
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	hub            ws.EventPublisher
	notifier       email.Notifier // nil olabilir
	friends        *friendCache
}

// NewFriendshipService, constructor. notifier nil ise e-posta bildirimi gönderilmez.
func NewFriendshipService(
	db *sql.DB,
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	hub ws.EventPublisher,
	notifier email.Notifier,
) FriendshipService {
	return &friendshipService{
		db:             db,
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		hub:            hub,
		notifier:       notifier,
		friends:        newFriendCache(friendshipRepo, friendCacheTTL),
	}
}

func (s *friendshipService) SendRequest(ctx context.Context, senderID string, req *models.SendFriendRequestRequest) (*models.FriendRequestWithUser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
		}
		return nil, err
	}

	if recipient.ID == senderID {
		return nil, pkg.ErrSelfRequest
	}

	friends, err := s.friendshipRepo.AreFriends(ctx, senderID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, pkg.ErrAlreadyFriends
	}

	pending, err := s.friendshipRepo.HasPendingBetween(ctx, senderID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, pkg.ErrDuplicatePending
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request := models.FriendRequest{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipient.ID,
		Status:      models.FriendRequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Yukarıdaki kontrol ile bu insert arasında yarışan istek unique index'e
	// takılır ve ErrDuplicatePending döner.
	if err := s.friendshipRepo.CreateRequest(ctx, &request); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(recipient.ID, ws.Event{
		Op:   ws.OpFriendRequestCreate,
		Data: models.FriendRequestWithUser{FriendRequest: request, User: sender.Public()},
	})

	s.notifyByEmail(recipient, sender.Name)

	return &models.FriendRequestWithUser{
		FriendRequest: request,
		User:          recipient.Public(),
	}, nil
}

// notifyByEmail, best-effort: hata sadece loglanır, isteği etkilemez.
func (s *friendshipService) notifyByEmail(recipient *models.User, senderName string) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.SendFriendRequest(ctx, recipient.Email, recipient.Name, senderName); err != nil {
			log.Printf("[friendship] email notification failed for user=%s: %v", recipient.ID, err)
		}
	}()
}

// AcceptRequest, durum değişikliği ve arkadaşlık satırını tek transaction'da yazar.
func (s *friendshipService) AcceptRequest(ctx context.Context, recipientID, requestID string) (*models.Friend, error) {
	request, err := s.pendingRequestFor(ctx, recipientID, requestID)
	if err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepo := repository.NewSQLiteFriendshipRepo(tx)

		changed, err := txRepo.ResolveRequest(ctx, request.ID, recipientID, models.FriendRequestAccepted)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("%w: friend request not found", pkg.ErrNotFound)
		}

		return txRepo.AddFriendship(ctx, request.SenderID, recipientID)
	})
	if err != nil {
		return nil, err
	}

	s.friends.invalidate(request.SenderID, recipientID)

	users, err := s.userRepo.GetPublicByIDs(ctx, []string{request.SenderID, recipientID})
	if err != nil {
		return nil, err
	}
	since := time.Now().UTC()

	s.hub.BroadcastToUser(request.SenderID, ws.Event{
		Op:   ws.OpFriendRequestAccept,
		Data: models.Friend{PublicUser: users[recipientID], Since: since},
	})

	return &models.Friend{PublicUser: users[request.SenderID], Since: since}, nil
}

// DeclineRequest, eşleşen pending istek yoksa sessizce başarılı döner.
func (s *friendshipService) DeclineRequest(ctx context.Context, recipientID, requestID string) error {
	request, err := s.pendingRequestFor(ctx, recipientID, requestID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	changed, err := s.friendshipRepo.ResolveRequest(ctx, request.ID, recipientID, models.FriendRequestDeclined)
	if err != nil {
		return err
	}

	if changed {
		s.hub.BroadcastToUser(request.SenderID, ws.Event{
			Op:   ws.OpFriendRequestDecline,
			Data: map[string]string{"request_id": request.ID, "user_id": recipientID},
		})
	}
	return nil
}

// pendingRequestFor, recipientID'ye gönderilmiş pending isteği döner.
// Başkasına ait ya da çözülmüş istek dışarıya NotFound olarak görünür.
func (s *friendshipService) pendingRequestFor(ctx context.Context, recipientID, requestID string) (*models.FriendRequest, error) {
	request, err := s.friendshipRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RecipientID != recipientID || request.Status != models.FriendRequestPending {
		return nil, fmt.Errorf("%w: friend request not found", pkg.ErrNotFound)
	}
	return request, nil
}

// RemoveFriend, idempotent. İstek geçmişine dokunulmaz.
func (s *friendshipService) RemoveFriend(ctx context.Context, userID, otherID string) error {
	removed, err := s.friendshipRepo.RemoveFriendship(ctx, userID, otherID)
	if err != nil {
		return err
	}

	s.friends.invalidate(userID, otherID)

	if removed {
		s.hub.BroadcastToUser(otherID, ws.Event{
			Op:   ws.OpFriendRemove,
			Data: map[string]string{"user_id": userID},
		})
	}
	return nil
}

func (s *friendshipService) ListIncoming(ctx context.Context, userID string) ([]models.FriendRequestWithUser, error) {
	return s.friendshipRepo.ListIncoming(ctx, userID)
}

func (s *friendshipService) ListSent(ctx context.Context, userID string) ([]models.FriendRequestWithUser, error) {
	return s.friendshipRepo.ListSent(ctx, userID)
}

func (s *friendshipService) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	return s.friendshipRepo.ListFriends(ctx, userID)
}

// Search, isim veya email içinde büyük/küçük harf duyarsız arama.
// 2 karakterden kısa sorgular boş liste döner.
func (s *friendshipService) Search(ctx context.Context, userID, query string) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	results := []models.UserSearchResult{}
	if len([]rune(query)) < minSearchLength {
		return results, nil
	}

	users, err := s.userRepo.Search(ctx, query, userID, searchLimit)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return results, nil
	}

	friendIDs, err := s.friends.ids(ctx, userID)
	if err != nil {
		return nil, err
	}
	sentTo, err := s.friendshipRepo.PendingRecipientIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	friendSet := toSet(friendIDs)
	sentSet := toSet(sentTo)
	for _, u := range users {
		results = append(results, models.UserSearchResult{
			PublicUser:  u,
			IsFriend:    friendSet[u.ID],
			RequestSent: sentSet[u.ID],
		})
	}
	return results, nil
}

func (s *friendshipService) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	return s.friends.ids(ctx, userID)
}

func (s *friendshipService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	return s.friends.contains(ctx, a, b)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
