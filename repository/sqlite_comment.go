package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
)

type sqliteCommentRepo struct {
	db database.TxQuerier
}

// NewSQLiteCommentRepo, constructor.
func NewSQLiteCommentRepo(db database.TxQuerier) CommentRepository {
	return &sqliteCommentRepo{db: db}
}

func (r *sqliteCommentRepo) Create(ctx context.Context, c *models.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO post_comments (id, post_id, author_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.Author.ID, c.Text, c.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: post %s", pkg.ErrNotFound, c.PostID)
	}
	if err != nil {
		return fmt.Errorf("comment create: %w", err)
	}
	return nil
}

func (r *sqliteCommentRepo) GetByID(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, post_id, author_id, text, created_at
		FROM post_comments WHERE id = ? AND post_id = ?`, commentID, postID,
	).Scan(&c.ID, &c.PostID, &c.Author.ID, &c.Text, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: comment %s", pkg.ErrNotFound, commentID)
	}
	if err != nil {
		return nil, fmt.Errorf("comment get by id: %w", err)
	}
	c.Replies = []models.Reply{}
	return &c, nil
}

func (r *sqliteCommentRepo) Delete(ctx context.Context, commentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE id = ?`, commentID); err != nil {
		return fmt.Errorf("comment delete: %w", err)
	}
	return nil
}

func (r *sqliteCommentRepo) CreateReply(ctx context.Context, reply *models.Reply) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comment_replies (id, comment_id, author_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		reply.ID, reply.CommentID, reply.Author.ID, reply.Text, reply.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: comment %s", pkg.ErrNotFound, reply.CommentID)
	}
	if err != nil {
		return fmt.Errorf("reply create: %w", err)
	}
	return nil
}

// ListByPosts, iki sorguyla çalışır: önce yorumlar, sonra bu yorumların
// yanıtları. Sıralama oluşturulma zamanı + rowid'dir.
func (r *sqliteCommentRepo) ListByPosts(ctx context.Context, postIDs []string) (map[string][]models.Comment, error) {
	result := make(map[string][]models.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.author_id, u.name, c.text, c.created_at
		FROM post_comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id IN `+inClause(len(postIDs))+`
		ORDER BY c.created_at, c.rowid`,
		stringArgs(nil, postIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("comment list: %w", err)
	}

	var order []string
	comments := make(map[string]*models.Comment)
	for rows.Next() {
		c := &models.Comment{Replies: []models.Reply{}}
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author.ID, &c.Author.Name, &c.Text, &c.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("comment list scan: %w", err)
		}
		comments[c.ID] = c
		order = append(order, c.ID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("comment list rows: %w", err)
	}
	rows.Close()

	if len(order) > 0 {
		if err := r.attachReplies(ctx, order, comments); err != nil {
			return nil, err
		}
	}

	for _, id := range order {
		c := comments[id]
		result[c.PostID] = append(result[c.PostID], *c)
	}
	return result, nil
}

func (r *sqliteCommentRepo) attachReplies(ctx context.Context, commentIDs []string, comments map[string]*models.Comment) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rp.id, rp.comment_id, rp.author_id, u.name, rp.text, rp.created_at
		FROM comment_replies rp
		JOIN users u ON u.id = rp.author_id
		WHERE rp.comment_id IN `+inClause(len(commentIDs))+`
		ORDER BY rp.created_at, rp.rowid`,
		stringArgs(nil, commentIDs)...,
	)
	if err != nil {
		return fmt.Errorf("reply list: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rp models.Reply
		if err := rows.Scan(&rp.ID, &rp.CommentID, &rp.Author.ID, &rp.Author.Name, &rp.Text, &rp.CreatedAt); err != nil {
			return fmt.Errorf("reply list scan: %w", err)
		}
		c := comments[rp.CommentID]
		c.Replies = append(c.Replies, rp)
	}
	return rows.Err()
}
