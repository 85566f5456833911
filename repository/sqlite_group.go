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

type sqliteGroupRepo struct {
	db database.TxQuerier
}

// NewSQLiteGroupRepo, constructor.
func NewSQLiteGroupRepo(db database.TxQuerier) GroupRepository {
	return &sqliteGroupRepo{db: db}
}

func (r *sqliteGroupRepo) Create(ctx context.Context, g *models.Group, memberIDs, adminIDs []string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, description, emoji, creator_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Description, g.Emoji, g.CreatorID, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("group create: %w", err)
	}

	// joined_at aynı olabilir; sıra rowid ile korunur.
	for _, userID := range memberIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)`,
			g.ID, userID, g.CreatedAt,
		); err != nil {
			return fmt.Errorf("group create member: %w", err)
		}
	}

	for _, userID := range adminIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO group_admins (group_id, user_id) VALUES (?, ?)`,
			g.ID, userID,
		); err != nil {
			return fmt.Errorf("group create admin: %w", err)
		}
	}
	return nil
}

func (r *sqliteGroupRepo) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var g models.Group
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, emoji, creator_id, created_at, updated_at
		FROM groups WHERE id = ?`, id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.Emoji, &g.CreatorID, &g.CreatedAt, &g.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %s", pkg.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("group get by id: %w", err)
	}

	if err := r.loadRelations(ctx, []*models.Group{&g}); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sqliteGroupRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM groups WHERE id = ?)`, id,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("group exists: %w", err)
	}
	return exists, nil
}

func (r *sqliteGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)`, groupID, userID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("group is member: %w", err)
	}
	return exists, nil
}

func (r *sqliteGroupRepo) AddMember(ctx context.Context, groupID, userID string) (bool, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)`,
		groupID, userID, now,
	)
	if err != nil {
		return false, fmt.Errorf("group add member: %w", err)
	}
	return r.touchIfChanged(ctx, result, groupID, now)
}

func (r *sqliteGroupRepo) RemoveMember(ctx context.Context, groupID, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("group remove member: %w", err)
	}
	return r.touchIfChanged(ctx, result, groupID, time.Now().UTC())
}

func (r *sqliteGroupRepo) touchIfChanged(ctx context.Context, result sql.Result, groupID string, now time.Time) (bool, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("group membership rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE groups SET updated_at = ? WHERE id = ?`, now, groupID); err != nil {
		return false, fmt.Errorf("group touch: %w", err)
	}
	return true, nil
}

func (r *sqliteGroupRepo) ListByMember(ctx context.Context, userID string) ([]models.Group, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.emoji, g.creator_id, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.updated_at DESC, g.rowid DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("group list by member: %w", err)
	}

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Emoji, &g.CreatorID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("group list by member scan: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("group list by member rows: %w", err)
	}
	rows.Close()

	ptrs := make([]*models.Group, len(groups))
	for i := range groups {
		ptrs[i] = &groups[i]
	}
	if err := r.loadRelations(ctx, ptrs); err != nil {
		return nil, err
	}
	return groups, nil
}

// loadRelations, gruplara üyeleri (katılım sırasıyla) ve admin ID'lerini doldurur.
func (r *sqliteGroupRepo) loadRelations(ctx context.Context, groups []*models.Group) error {
	if len(groups) == 0 {
		return nil
	}

	byID := make(map[string]*models.Group, len(groups))
	ids := make([]string, len(groups))
	for i, g := range groups {
		g.Members = []models.PublicUser{}
		g.AdminIDs = []string{}
		byID[g.ID] = g
		ids[i] = g.ID
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT gm.group_id, u.id, u.name, u.is_premium
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id IN `+inClause(len(ids))+`
		ORDER BY gm.joined_at, gm.rowid`,
		stringArgs(nil, ids)...,
	)
	if err != nil {
		return fmt.Errorf("group load members: %w", err)
	}
	for rows.Next() {
		var groupID string
		var u models.PublicUser
		if err := rows.Scan(&groupID, &u.ID, &u.Name, &u.IsPremium); err != nil {
			rows.Close()
			return fmt.Errorf("group load members scan: %w", err)
		}
		byID[groupID].Members = append(byID[groupID].Members, u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("group load members rows: %w", err)
	}
	rows.Close()

	adminRows, err := r.db.QueryContext(ctx,
		`SELECT group_id, user_id FROM group_admins WHERE group_id IN `+inClause(len(ids))+` ORDER BY rowid`,
		stringArgs(nil, ids)...,
	)
	if err != nil {
		return fmt.Errorf("group load admins: %w", err)
	}
	defer adminRows.Close()

	for adminRows.Next() {
		var groupID, userID string
		if err := adminRows.Scan(&groupID, &userID); err != nil {
			return fmt.Errorf("group load admins scan: %w", err)
		}
		byID[groupID].AdminIDs = append(byID[groupID].AdminIDs, userID)
	}
	return adminRows.Err()
}
