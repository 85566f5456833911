package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
)

type sqlitePostRepo struct {
	db database.TxQuerier
}

// NewSQLitePostRepo, constructor.
func NewSQLitePostRepo(db database.TxQuerier) PostRepository {
	return &sqlitePostRepo{db: db}
}

const postSelect = `
	SELECT p.id, p.author_id, u.name, u.email, u.is_premium,
	       p.type, p.content, p.data, p.visibility, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func (r *sqlitePostRepo) Create(ctx context.Context, post *models.Post) error {
	data, err := json.Marshal(post.Data)
	if err != nil {
		return fmt.Errorf("post create marshal data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, type, content, data, visibility, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.AuthorID, post.Type, post.Content, string(data), post.Visibility, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("post create: %w", err)
	}
	return nil
}

func (r *sqlitePostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: post %s", pkg.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("post get by id: %w", err)
	}
	return post, nil
}

func (r *sqlitePostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("post delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("post delete rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: post %s", pkg.ErrNotFound, id)
	}
	return nil
}

func (r *sqlitePostRepo) ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]models.Post, error) {
	posts := []models.Post{}
	if len(authorIDs) == 0 {
		return posts, nil
	}

	query := postSelect + ` WHERE p.author_id IN ` + inClause(len(authorIDs)) +
		` ORDER BY p.created_at DESC, p.rowid DESC LIMIT ? OFFSET ?`
	args := append(stringArgs(nil, authorIDs), limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("post list by authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("post list by authors scan: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *sqlitePostRepo) CountByAuthors(ctx context.Context, authorIDs []string) (int, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}

	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id IN `+inClause(len(authorIDs)),
		stringArgs(nil, authorIDs)...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("post count by authors: %w", err)
	}
	return n, nil
}

// rowScanner, *sql.Row ve *sql.Rows ortak arayüzü.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPost, satırı okur ve data kolonunu tipine göre çözer.
func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	var data string
	if err := row.Scan(
		&p.ID, &p.AuthorID, &p.Author.Name, &p.Author.Email, &p.Author.IsPremium,
		&p.Type, &p.Content, &data, &p.Visibility, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Author.ID = p.AuthorID

	payload, err := models.DecodePostData(p.Type, json.RawMessage(data))
	if err != nil {
		return nil, fmt.Errorf("decode post %s data: %w", p.ID, err)
	}
	p.Data = payload
	p.LikeIDs = []string{}
	p.Comments = []models.Comment{}
	return &p, nil
}
