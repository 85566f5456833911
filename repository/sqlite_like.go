package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
)

type sqliteLikeRepo struct {
	db database.TxQuerier
}

// NewSQLiteLikeRepo, constructor.
func NewSQLiteLikeRepo(db database.TxQuerier) LikeRepository {
	return &sqliteLikeRepo{db: db}
}

// Toggle: INSERT OR IGNORE → satır eklenmediyse zaten beğenilmiş demektir, DELETE.
// OR IGNORE foreign key hatasını yutmaz; gönderi yoksa pkg.ErrNotFound döner.
// Her adım set işlemidir; aynı kullanıcının art arda toggle'ları tekrar eden
// kayıt üretmez.
func (r *sqliteLikeRepo) Toggle(ctx context.Context, postID, userID string) (models.LikeResult, error) {
	var res models.LikeResult

	result, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, ?)`,
		postID, userID, time.Now().UTC(),
	)
	if isForeignKeyViolation(err) {
		return res, fmt.Errorf("%w: post %s", pkg.ErrNotFound, postID)
	}
	if err != nil {
		return res, fmt.Errorf("like insert: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return res, fmt.Errorf("like insert rows affected: %w", err)
	}

	res.Liked = inserted == 1
	if !res.Liked {
		if _, err := r.db.ExecContext(ctx,
			`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID,
		); err != nil {
			return res, fmt.Errorf("like delete: %w", err)
		}
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = ?`, postID,
	).Scan(&res.Likes); err != nil {
		return res, fmt.Errorf("like count: %w", err)
	}
	return res, nil
}

func (r *sqliteLikeRepo) LikersOf(ctx context.Context, postIDs []string) (map[string][]string, error) {
	likers := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return likers, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, user_id FROM post_likes WHERE post_id IN `+inClause(len(postIDs))+` ORDER BY created_at, rowid`,
		stringArgs(nil, postIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("like list: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, fmt.Errorf("like list scan: %w", err)
		}
		likers[postID] = append(likers[postID], userID)
	}
	return likers, rows.Err()
}
