package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
)

type sqliteFriendshipRepo struct {
	db database.TxQuerier
}

// NewSQLiteFriendshipRepo, constructor. Accept akışında *sql.Tx ile kurulur.
func NewSQLiteFriendshipRepo(db database.TxQuerier) FriendshipRepository {
	return &sqliteFriendshipRepo{db: db}
}

func (r *sqliteFriendshipRepo) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO friend_requests (id, sender_id, recipient_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID, req.SenderID, req.RecipientID, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return pkg.ErrDuplicatePending
		}
		return fmt.Errorf("friend request create: %w", err)
	}
	return nil
}

func (r *sqliteFriendshipRepo) GetRequestByID(ctx context.Context, id string) (*models.FriendRequest, error) {
	var fr models.FriendRequest
	err := r.db.QueryRowContext(ctx, `
		SELECT id, sender_id, recipient_id, status, created_at, updated_at
		FROM friend_requests WHERE id = ?`, id,
	).Scan(&fr.ID, &fr.SenderID, &fr.RecipientID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: friend request %s", pkg.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("friend request get by id: %w", err)
	}
	return &fr, nil
}

func (r *sqliteFriendshipRepo) HasPendingBetween(ctx context.Context, a, b string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE status = 'pending'
			  AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))
		)`, a, b, b, a,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("friend request pending check: %w", err)
	}
	return exists, nil
}

func (r *sqliteFriendshipRepo) ResolveRequest(ctx context.Context, id, recipientID string, status models.FriendRequestStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE friend_requests SET status = ?, updated_at = ?
		WHERE id = ? AND recipient_id = ? AND status = 'pending'`,
		status, time.Now().UTC(), id, recipientID,
	)
	if err != nil {
		return false, fmt.Errorf("friend request resolve: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("friend request resolve rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *sqliteFriendshipRepo) ListIncoming(ctx context.Context, userID string) ([]models.FriendRequestWithUser, error) {
	return r.listRequests(ctx, `
		SELECT fr.id, fr.sender_id, fr.recipient_id, fr.status, fr.created_at, fr.updated_at,
		       u.id, u.name, u.email, u.is_premium
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.recipient_id = ? AND fr.status = 'pending'
		ORDER BY fr.created_at DESC`, userID)
}

func (r *sqliteFriendshipRepo) ListSent(ctx context.Context, userID string) ([]models.FriendRequestWithUser, error) {
	return r.listRequests(ctx, `
		SELECT fr.id, fr.sender_id, fr.recipient_id, fr.status, fr.created_at, fr.updated_at,
		       u.id, u.name, u.email, u.is_premium
		FROM friend_requests fr
		JOIN users u ON u.id = fr.recipient_id
		WHERE fr.sender_id = ? AND fr.status = 'pending'
		ORDER BY fr.created_at DESC`, userID)
}

func (r *sqliteFriendshipRepo) listRequests(ctx context.Context, query, userID string) ([]models.FriendRequestWithUser, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("friend request list: %w", err)
	}
	defer rows.Close()

	requests := []models.FriendRequestWithUser{}
	for rows.Next() {
		var fr models.FriendRequestWithUser
		if err := rows.Scan(
			&fr.ID, &fr.SenderID, &fr.RecipientID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt,
			&fr.User.ID, &fr.User.Name, &fr.User.Email, &fr.User.IsPremium,
		); err != nil {
			return nil, fmt.Errorf("friend request list scan: %w", err)
		}
		requests = append(requests, fr)
	}
	return requests, rows.Err()
}

func (r *sqliteFriendshipRepo) PendingRecipientIDs(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx,
		`SELECT recipient_id FROM friend_requests WHERE sender_id = ? AND status = 'pending'`,
		userID,
	)
}

func (r *sqliteFriendshipRepo) AddFriendship(ctx context.Context, a, b string) error {
	low, high := models.FriendPair(a, b)
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO friendships (user_low, user_high, created_at) VALUES (?, ?, ?)`,
		low, high, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("friendship add: %w", err)
	}
	return nil
}

func (r *sqliteFriendshipRepo) RemoveFriendship(ctx context.Context, a, b string) (bool, error) {
	low, high := models.FriendPair(a, b)
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM friendships WHERE user_low = ? AND user_high = ?`, low, high,
	)
	if err != nil {
		return false, fmt.Errorf("friendship remove: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("friendship remove rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *sqliteFriendshipRepo) AreFriends(ctx context.Context, a, b string) (bool, error) {
	low, high := models.FriendPair(a, b)
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM friendships WHERE user_low = ? AND user_high = ?)`, low, high,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("friendship check: %w", err)
	}
	return exists, nil
}

// ListFriends, arkadaşları karşı tarafın bilgisiyle döner.
// Çift tek satır olduğu için karşı taraf CASE ile seçilir.
func (r *sqliteFriendshipRepo) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.is_premium, f.created_at
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.user_low = ? THEN f.user_high ELSE f.user_low END
		WHERE f.user_low = ? OR f.user_high = ?
		ORDER BY u.name`, userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("friendship list friends: %w", err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.IsPremium, &f.Since); err != nil {
			return nil, fmt.Errorf("friendship list friends scan: %w", err)
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

func (r *sqliteFriendshipRepo) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, `
		SELECT user_high FROM friendships WHERE user_low = ?
		UNION ALL
		SELECT user_low FROM friendships WHERE user_high = ?`, userID, userID,
	)
}

func (r *sqliteFriendshipRepo) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("friendship query ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("friendship query ids scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
