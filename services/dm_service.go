package services

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/repository"
	"github.com/akinalp/healthy/ws"
	"github.com/google/uuid"
)

// DMService, arkadaşlar arası birebir mesajlaşma.
//
// Thread açmak (FetchThread) karşı taraftan gelen mesajları okundu işaretler.
// Okuma kümesi idempotent'tir: aynı mesaj tekrar işaretlenmez.
type DMService interface {
	Send(ctx context.Context, senderID, recipientID string, req *models.SendMessageRequest) (*models.Message, error)
	FetchThread(ctx context.Context, viewerID, otherID string, limit int) ([]models.Message, error)
	ListConversations(ctx context.Context, viewerID string) ([]models.Conversation, error)
}

type dmService struct {
	messageRepo   repository.MessageRepository
	readStateRepo repository.ReadStateRepository
	userRepo      repository.UserRepository
	friendships   FriendshipService
	hub           ws.EventPublisher
}

// NewDMService, constructor.
func NewDMService(
	messageRepo repository.MessageRepository,
	readStateRepo repository.ReadStateRepository,
	userRepo repository.UserRepository,
	friendships FriendshipService,
	hub ws.EventPublisher,
) DMService {
	return &dmService{
		messageRepo:   messageRepo,
		readStateRepo: readStateRepo,
		userRepo:      userRepo,
		friendships:   friendships,
		hub:           hub,
	}
}

func (s *dmService) Send(ctx context.Context, senderID, recipientID string, req *models.SendMessageRequest) (*models.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	friends, err := s.friendships.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, pkg.ErrNotFriends
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		SenderName:  sender.Name,
		RecipientID: &recipientID,
		Text:        req.Text,
		ReadBy:      []string{},
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUsers([]string{senderID, recipientID}, ws.Event{
		Op:   ws.OpDMMessageCreate,
		Data: msg,
	})

	return msg, nil
}

// FetchThread, çiftin son limit mesajını eskiden yeniye döner ve
// karşı taraftan gelenleri viewer adına okundu işaretler.
// Dönen mesajlar işaretleme sonrası okuma kümesini taşır.
func (s *dmService) FetchThread(ctx context.Context, viewerID, otherID string, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > models.DefaultThreadLimit {
		limit = models.DefaultThreadLimit
	}

	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListDirect(ctx, viewerID, otherID, limit)
	if err != nil {
		return nil, err
	}

	marked, err := s.readStateRepo.MarkDirectRead(ctx, viewerID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}

	if err := s.attachReaders(ctx, messages); err != nil {
		return nil, err
	}

	if len(marked) > 0 {
		s.hub.BroadcastToUser(otherID, ws.Event{
			Op:   ws.OpDMMessagesRead,
			Data: models.ReadReceipt{ReaderID: viewerID, MessageIDs: marked},
		})
	}

	return messages, nil
}

func (s *dmService) attachReaders(ctx context.Context, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	ids := make([]string, len(messages))
	for i := range messages {
		ids[i] = messages[i].ID
	}

	readers, err := s.readStateRepo.ReadersOf(ctx, ids)
	if err != nil {
		return err
	}

	for i := range messages {
		if r, ok := readers[messages[i].ID]; ok {
			messages[i].ReadBy = r
		}
	}
	return nil
}

func (s *dmService) ListConversations(ctx context.Context, viewerID string) ([]models.Conversation, error) {
	return s.messageRepo.Conversations(ctx, viewerID)
}
