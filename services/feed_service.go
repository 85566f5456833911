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

// FeedService, sosyal akış: gönderiler, beğeniler, yorumlar ve yanıtlar.
//
// Bir kullanıcının feed'i kendi gönderileri ile arkadaşlarının gönderilerinden
// oluşur. Görünürlük alanı saklanır ama filtrelemede kullanılmaz.
type FeedService interface {
	CreatePost(ctx context.Context, authorID string, req *models.CreatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, requesterID, postID string) error
	ToggleLike(ctx context.Context, userID, postID string) (*models.LikeResult, error)
	AddComment(ctx context.Context, userID, postID string, req *models.CommentRequest) ([]models.Comment, error)
	DeleteComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error)
	AddReply(ctx context.Context, userID, postID, commentID string, req *models.CommentRequest) ([]models.Comment, error)
	Feed(ctx context.Context, viewerID string, page, limit int) (*models.FeedPage, error)
}

type feedService struct {
	db          *sql.DB
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	friendships FriendshipService
	meals       CustomMealService
	hub         ws.EventPublisher
}

// NewFeedService, constructor.
func NewFeedService(
	db *sql.DB,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	friendships FriendshipService,
	meals CustomMealService,
	hub ws.EventPublisher,
) FeedService {
	return &feedService{
		db:          db,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		friendships: friendships,
		meals:       meals,
		hub:         hub,
	}
}

func (s *feedService) CreatePost(ctx context.Context, authorID string, req *models.CreatePostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolveMeal(ctx, authorID, req.Payload); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:         uuid.New().String(),
		AuthorID:   authorID,
		Author:     author.Public(),
		Type:       req.Type,
		Content:    req.Content,
		Data:       req.Payload,
		Visibility: req.Visibility,
		LikeIDs:    []string{},
		Comments:   []models.Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	friendIDs, err := s.friendships.FriendIDs(ctx, authorID)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastToUsers(friendIDs, ws.Event{
		Op:   ws.OpPostCreate,
		Data: post,
	})

	return post, nil
}

// resolveMeal, custom_meal gönderisi kayıtlı bir tarife bağlıysa (meal_id)
// tarifin yazara ait ya da herkese açık olduğunu doğrular. Payload'da isim
// yoksa tarifin değerleri gönderiye kopyalanır.
func (s *feedService) resolveMeal(ctx context.Context, authorID string, data models.PostData) error {
	payload, ok := data.(*models.CustomMealData)
	if !ok || payload.MealID == "" {
		return nil
	}

	meal, err := s.meals.Visible(ctx, authorID, payload.MealID)
	if err != nil {
		return err
	}

	if payload.Name == "" {
		payload.Name = meal.Name
		payload.Description = meal.Description
		payload.Calories = valueOrZero(meal.Calories)
		payload.Protein = valueOrZero(meal.Protein)
		payload.Carbs = valueOrZero(meal.Carbs)
		payload.Fat = valueOrZero(meal.Fat)
		payload.Fiber = valueOrZero(meal.Fiber)
		payload.Ingredients = meal.Ingredients
		payload.Category = string(meal.Category)
		payload.Serving = meal.Serving
	}
	return nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// DeletePost, yalnızca yazar silebilir. Beğeni, yorum ve yanıtlar FK cascade ile gider.
func (s *feedService) DeletePost(ctx context.Context, requesterID, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return fmt.Errorf("%w: only the author can delete this post", pkg.ErrForbidden)
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.broadcastToAudience(ctx, post.AuthorID, ws.Event{
		Op:   ws.OpPostDelete,
		Data: map[string]string{"post_id": postID},
	})
	return nil
}

// ToggleLike, beğeni yoksa ekler, varsa kaldırır. Gönderi kontrolü ve
// insert/delete/count adımları tek transaction'da çalışır; aynı kullanıcının
// eşzamanlı toggle'ları sıraya girer.
func (s *feedService) ToggleLike(ctx context.Context, userID, postID string) (*models.LikeResult, error) {
	var post *models.Post
	var result models.LikeResult
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// Varlık kontrolü de transaction içinde: arada DeletePost araya giremez
		var err error
		post, err = repository.NewSQLitePostRepo(tx).GetByID(ctx, postID)
		if err != nil {
			return err
		}
		result, err = repository.NewSQLiteLikeRepo(tx).Toggle(ctx, postID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.broadcastToAudience(ctx, post.AuthorID, ws.Event{
		Op: ws.OpPostLikeUpdate,
		Data: map[string]any{
			"post_id": postID,
			"user_id": userID,
			"likes":   result.Likes,
			"liked":   result.Liked,
		},
	})

	return &result, nil
}

func (s *feedService) AddComment(ctx context.Context, userID, postID string, req *models.CommentRequest) ([]models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		Author:    models.PublicUser{ID: userID},
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentsChanged(ctx, post)
}

// DeleteComment, yorumun sahibi ya da gönderinin yazarı silebilir.
func (s *feedService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	if comment.Author.ID != userID && post.AuthorID != userID {
		return nil, fmt.Errorf("%w: you cannot delete this comment", pkg.ErrForbidden)
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return nil, err
	}

	return s.commentsChanged(ctx, post)
}

// AddReply, yorum herkese açıktır; gönderiyi görebilen herkes yanıtlayabilir.
func (s *feedService) AddReply(ctx context.Context, userID, postID, commentID string, req *models.CommentRequest) ([]models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if _, err := s.commentRepo.GetByID(ctx, postID, commentID); err != nil {
		return nil, err
	}

	reply := &models.Reply{
		ID:        uuid.New().String(),
		CommentID: commentID,
		Author:    models.PublicUser{ID: userID},
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.commentRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	return s.commentsChanged(ctx, post)
}

// commentsChanged, güncel yorum listesini yükler ve izleyicilere yayınlar.
func (s *feedService) commentsChanged(ctx context.Context, post *models.Post) ([]models.Comment, error) {
	byPost, err := s.commentRepo.ListByPosts(ctx, []string{post.ID})
	if err != nil {
		return nil, err
	}

	comments := byPost[post.ID]
	if comments == nil {
		comments = []models.Comment{}
	}

	s.broadcastToAudience(ctx, post.AuthorID, ws.Event{
		Op:   ws.OpPostCommentsUpdate,
		Data: map[string]any{"post_id": post.ID, "comments": comments},
	})

	return comments, nil
}

// Feed, viewer ve arkadaşlarının gönderilerini en yeniden eskiye sayfalar.
// page < 1 → 1; limit 1..50 aralığına çekilir (0 → 20).
func (s *feedService) Feed(ctx context.Context, viewerID string, page, limit int) (*models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = models.DefaultFeedLimit
	}
	if limit > models.MaxFeedLimit {
		limit = models.MaxFeedLimit
	}

	friendIDs, err := s.friendships.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authors := append([]string{viewerID}, friendIDs...)

	total, err := s.postRepo.CountByAuthors(ctx, authors)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByAuthors(ctx, authors, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	if err := s.enrich(ctx, viewerID, posts); err != nil {
		return nil, err
	}

	return &models.FeedPage{
		Posts:   posts,
		Total:   total,
		HasMore: total > page*limit,
	}, nil
}

// enrich, beğenileri ve yorumları toplu sorgularla gönderilere ekler.
func (s *feedService) enrich(ctx context.Context, viewerID string, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	likers, err := s.likeRepo.LikersOf(ctx, ids)
	if err != nil {
		return err
	}
	comments, err := s.commentRepo.ListByPosts(ctx, ids)
	if err != nil {
		return err
	}

	for i := range posts {
		p := &posts[i]

		p.LikeIDs = likers[p.ID]
		if p.LikeIDs == nil {
			p.LikeIDs = []string{}
		}
		p.Likes = len(p.LikeIDs)
		for _, id := range p.LikeIDs {
			if id == viewerID {
				p.LikedByMe = true
				break
			}
		}

		p.Comments = comments[p.ID]
		if p.Comments == nil {
			p.Comments = []models.Comment{}
		}
	}
	return nil
}

// broadcastToAudience, gönderinin yazarına ve yazarın arkadaşlarına yayın yapar.
// Arkadaş listesi yüklenemezse yalnızca yazara gider.
func (s *feedService) broadcastToAudience(ctx context.Context, authorID string, event ws.Event) {
	audience := []string{authorID}
	friendIDs, err := s.friendships.FriendIDs(ctx, authorID)
	if err == nil {
		audience = append(audience, friendIDs...)
	}
	s.hub.BroadcastToUsers(audience, event)
}
