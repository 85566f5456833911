package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akinalp/healthy/pkg"
)

// PostVisibility, gönderinin görünürlüğü. Saklanır ama feed filtresi
// yalnızca yazar kümesine bakar.
type PostVisibility string

const (
	VisibilityFriends PostVisibility = "friends"
	VisibilityPublic  PostVisibility = "public"
)

const (
	MaxPostContentLength = 500
	MaxCommentLength     = 300

	DefaultFeedLimit = 20
	MaxFeedLimit     = 50
)

// Post, feed'deki bir gönderi. Likes/LikedByMe/LikeIDs/Comments okuma
// sırasında ilişkili tablolardan doldurulur.
type Post struct {
	ID         string         `json:"id"`
	AuthorID   string         `json:"author_id"`
	Author     PublicUser     `json:"author"`
	Type       PostType       `json:"type"`
	Content    string         `json:"content"`
	Data       PostData       `json:"data"`
	Visibility PostVisibility `json:"visibility"`
	Likes      int            `json:"likes"`
	LikedByMe  bool           `json:"liked_by_me"`
	LikeIDs    []string       `json:"like_ids"`
	Comments   []Comment      `json:"comments"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Comment, bir gönderiye yapılan yorum. Yanıtlar oluşturulma sırasıyla gelir.
type Comment struct {
	ID        string     `json:"id"`
	PostID    string     `json:"post_id"`
	Author    PublicUser `json:"author"`
	Text      string     `json:"text"`
	Replies   []Reply    `json:"replies"`
	CreatedAt time.Time  `json:"created_at"`
}

// Reply, bir yoruma verilen yanıt.
type Reply struct {
	ID        string     `json:"id"`
	CommentID string     `json:"comment_id"`
	Author    PublicUser `json:"author"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

// FeedPage, sayfalanmış feed yanıtı.
type FeedPage struct {
	Posts   []Post `json:"posts"`
	Total   int    `json:"total"`
	HasMore bool   `json:"has_more"`
}

// LikeResult, like toggle sonucu.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

// CreatePostRequest, gönderi oluşturma isteği.
// Data ham JSON olarak alınır, Validate tipine göre çözer ve Payload'a yazar.
type CreatePostRequest struct {
	Type       PostType        `json:"type"`
	Content    string          `json:"content"`
	Data       json.RawMessage `json:"data"`
	Visibility PostVisibility  `json:"visibility"`

	Payload PostData `json:"-"`
}

// Validate, tip/görünürlük/içerik kontrolü yapar ve payload'ı çözer.
func (r *CreatePostRequest) Validate() error {
	if r.Type == "" {
		return fmt.Errorf("%w: post type is required", pkg.ErrBadRequest)
	}

	r.Content = strings.TrimSpace(r.Content)
	if utf8.RuneCountInString(r.Content) > MaxPostContentLength {
		return fmt.Errorf("%w: content must be at most %d characters", pkg.ErrBadRequest, MaxPostContentLength)
	}

	switch r.Visibility {
	case "":
		r.Visibility = VisibilityFriends
	case VisibilityFriends, VisibilityPublic:
	default:
		return fmt.Errorf("%w: invalid visibility %q", pkg.ErrBadRequest, r.Visibility)
	}

	payload, err := DecodePostData(r.Type, r.Data)
	if err != nil {
		return err
	}
	r.Payload = payload
	return nil
}

// CommentRequest, yorum ve yanıt body'si.
type CommentRequest struct {
	Text string `json:"text"`
}

// Validate, metni trim'ler; boş veya 300 karakterden uzun metin geçersizdir.
func (r *CommentRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	n := utf8.RuneCountInString(r.Text)
	if n == 0 {
		return fmt.Errorf("%w: comment text is required", pkg.ErrBadRequest)
	}
	if n > MaxCommentLength {
		return fmt.Errorf("%w: comment must be at most %d characters", pkg.ErrBadRequest, MaxCommentLength)
	}
	return nil
}
