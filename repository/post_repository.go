package repository

import (
	"context"

	"github.com/akinalp/healthy/models"
)

// PostRepository, feed gönderileri. Dönen gönderilerde Author doludur;
// beğeniler ve yorumlar LikeRepository/CommentRepository'den eklenir.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID, bulunamazsa pkg.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// Delete, gönderiyi siler; beğeni, yorum ve yanıtlar FK cascade ile gider.
	Delete(ctx context.Context, id string) error
	// ListByAuthors, yazar kümesinin gönderileri, yeniden eskiye.
	ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]models.Post, error)
	CountByAuthors(ctx context.Context, authorIDs []string) (int, error)
}

// LikeRepository, gönderi beğenileri (post_likes, set semantiği).
type LikeRepository interface {
	// Toggle, beğeni yoksa ekler, varsa kaldırır; yeni sayı ve durumu döner.
	Toggle(ctx context.Context, postID, userID string) (models.LikeResult, error)
	// LikersOf, gönderi ID'si → beğenen kullanıcı ID'leri (beğeni sırasıyla).
	LikersOf(ctx context.Context, postIDs []string) (map[string][]string, error)
}

// CommentRepository, yorumlar ve yanıtları.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// GetByID, gönderiye ait yorumu döner (Author.ID dolu). Yoksa pkg.ErrNotFound.
	GetByID(ctx context.Context, postID, commentID string) (*models.Comment, error)
	// Delete, yorumu siler; yanıtlar FK cascade ile gider.
	Delete(ctx context.Context, commentID string) error
	CreateReply(ctx context.Context, reply *models.Reply) error
	// ListByPosts, gönderi ID'si → yorumlar (yanıtlarıyla, isimler çözülmüş).
	ListByPosts(ctx context.Context, postIDs []string) (map[string][]models.Comment, error)
}
