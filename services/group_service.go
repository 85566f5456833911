package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/repository"
	"github.com/akinalp/healthy/ws"
	"github.com/google/uuid"
)

// GroupService, grup sohbetleri.
//
// Oluşturan kişi yalnızca arkadaşlarını ekleyebilir. Join ise arkadaşlık
// şartı aramaz: grup ID'sini bilen herkes katılabilir.
type GroupService interface {
	Create(ctx context.Context, creatorID string, req *models.CreateGroupRequest) (*models.Group, error)
	Send(ctx context.Context, senderID, groupID string, req *models.SendMessageRequest) (*models.Message, error)
	FetchThread(ctx context.Context, viewerID, groupID string, limit int) (*models.GroupThread, error)
	Join(ctx context.Context, userID, groupID string) (*models.Group, error)
	Leave(ctx context.Context, userID, groupID string) error
	ListMine(ctx context.Context, userID string) ([]models.Group, error)
}

type groupService struct {
	db          *sql.DB
	groupRepo   repository.GroupRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	friendships FriendshipService
	hub         ws.EventPublisher
}

// NewGroupService, constructor.
func NewGroupService(
	db *sql.DB,
	groupRepo repository.GroupRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	friendships FriendshipService,
	hub ws.EventPublisher,
) GroupService {
	return &groupService{
		db:          db,
		groupRepo:   groupRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		friendships: friendships,
		hub:         hub,
	}
}

// Create, grubu, üyeleri ve admin'i tek transaction'da yazar.
// memberIDs içindeki arkadaş olmayanlar, tekrarlar ve oluşturan kişi sessizce atlanır.
func (s *groupService) Create(ctx context.Context, creatorID string, req *models.CreateGroupRequest) (*models.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	friendIDs, err := s.friendships.FriendIDs(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	friendSet := toSet(friendIDs)

	memberIDs := []string{creatorID}
	seen := map[string]bool{creatorID: true}
	for _, id := range req.MemberIDs {
		if seen[id] || !friendSet[id] {
			continue
		}
		seen[id] = true
		memberIDs = append(memberIDs, id)
	}

	now := time.Now().UTC()
	group := &models.Group{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return repository.NewSQLiteGroupRepo(tx).Create(ctx, group, memberIDs, []string{creatorID})
	})
	if err != nil {
		return nil, err
	}

	created, err := s.groupRepo.GetByID(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToUsers(created.MemberIDs(), ws.Event{
		Op:   ws.OpGroupCreate,
		Data: created,
	})

	return created, nil
}

// Send, sıra: grup var mı → metin geçerli mi → gönderen üye mi.
func (s *groupService) Send(ctx context.Context, senderID, groupID string, req *models.SendMessageRequest) (*models.Message, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !group.HasMember(senderID) {
		return nil, fmt.Errorf("%w: you are not a member of this group", pkg.ErrForbidden)
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		SenderName: sender.Name,
		GroupID:    &group.ID,
		Text:       req.Text,
		ReadBy:     []string{},
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUsers(group.MemberIDs(), ws.Event{
		Op:   ws.OpGroupMessageCreate,
		Data: msg,
	})

	return msg, nil
}

func (s *groupService) FetchThread(ctx context.Context, viewerID, groupID string, limit int) (*models.GroupThread, error) {
	if limit <= 0 || limit > models.DefaultThreadLimit {
		limit = models.DefaultThreadLimit
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(viewerID) {
		return nil, fmt.Errorf("%w: you are not a member of this group", pkg.ErrForbidden)
	}

	messages, err := s.messageRepo.ListGroup(ctx, groupID, limit)
	if err != nil {
		return nil, err
	}

	return &models.GroupThread{Group: group, Messages: messages}, nil
}

// Join, idempotent. Üyelik değişmediyse event gönderilmez.
func (s *groupService) Join(ctx context.Context, userID, groupID string) (*models.Group, error) {
	// Varlık kontrolü, üyelik satırı ve updated_at tek transaction'da
	var added bool
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := repository.NewSQLiteGroupRepo(tx)
		if err := requireGroup(ctx, repo, groupID); err != nil {
			return err
		}
		var err error
		added, err = repo.AddMember(ctx, groupID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if added {
		s.hub.BroadcastToUsers(group.MemberIDs(), ws.Event{
			Op:   ws.OpGroupMemberJoin,
			Data: map[string]string{"group_id": groupID, "user_id": userID},
		})
	}

	return group, nil
}

// Leave, idempotent.
func (s *groupService) Leave(ctx context.Context, userID, groupID string) error {
	var removed bool
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := repository.NewSQLiteGroupRepo(tx)
		if err := requireGroup(ctx, repo, groupID); err != nil {
			return err
		}
		var err error
		removed, err = repo.RemoveMember(ctx, groupID, userID)
		return err
	})
	if err != nil {
		return err
	}

	if removed {
		group, err := s.groupRepo.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		s.hub.BroadcastToUsers(append(group.MemberIDs(), userID), ws.Event{
			Op:   ws.OpGroupMemberLeave,
			Data: map[string]string{"group_id": groupID, "user_id": userID},
		})
	}
	return nil
}

func (s *groupService) ListMine(ctx context.Context, userID string) ([]models.Group, error) {
	return s.groupRepo.ListByMember(ctx, userID)
}

func requireGroup(ctx context.Context, repo repository.GroupRepository, groupID string) error {
	exists, err := repo.Exists(ctx, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: group not found", pkg.ErrNotFound)
	}
	return nil
}
