package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
)

type sqliteUserRepo struct {
	db database.TxQuerier
}

// NewSQLiteUserRepo, constructor.
func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db}
}

const userColumns = `id, name, email, password_hash, is_premium, profile, reminders, created_at, updated_at`

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("user create marshal profile: %w", err)
	}
	reminders, err := json.Marshal(user.Reminders)
	if err != nil {
		return fmt.Errorf("user create marshal reminders: %w", err)
	}

	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.IsPremium,
		string(profile), string(reminders), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: an account with this email already exists", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", pkg.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("user get by id: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no user with this email", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("user get by email: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) GetPublicByIDs(ctx context.Context, ids []string) (map[string]models.PublicUser, error) {
	users := make(map[string]models.PublicUser, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT id, name, email, is_premium FROM users WHERE id IN ` + inClause(len(ids))
	rows, err := r.db.QueryContext(ctx, query, stringArgs(nil, ids)...)
	if err != nil {
		return nil, fmt.Errorf("user get public by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.IsPremium); err != nil {
			return nil, fmt.Errorf("user get public by ids scan: %w", err)
		}
		users[u.ID] = u
	}
	return users, rows.Err()
}

// Search, isim ve e-postada büyük/küçük harf duyarsız arar. LIKE yalnızca ASCII
// harfleri katladığı için iki taraf da database.Fold ile normalize edilir.
func (r *sqliteUserRepo) Search(ctx context.Context, query, excludeID string, limit int) ([]models.PublicUser, error) {
	pattern := likePattern(database.Fold(query))
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, is_premium
		FROM users
		WHERE id <> ?
		  AND (fold(name) LIKE ? ESCAPE '\' OR fold(email) LIKE ? ESCAPE '\')
		ORDER BY name, email
		LIMIT ?`,
		excludeID, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("user search: %w", err)
	}
	defer rows.Close()

	results := []models.PublicUser{}
	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.IsPremium); err != nil {
			return nil, fmt.Errorf("user search scan: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

func (r *sqliteUserRepo) UpdateProfile(ctx context.Context, userID string, profile models.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("user update profile marshal: %w", err)
	}
	return r.updateColumn(ctx, userID, "profile", string(raw))
}

func (r *sqliteUserRepo) UpdateReminders(ctx context.Context, userID string, reminders models.Reminders) error {
	raw, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("user update reminders marshal: %w", err)
	}
	return r.updateColumn(ctx, userID, "reminders", string(raw))
}

func (r *sqliteUserRepo) SetPremium(ctx context.Context, userID string, premium bool) error {
	return r.updateColumn(ctx, userID, "is_premium", premium)
}

// updateColumn, tek kolonu günceller. column sadece bu dosyadaki sabit
// isimlerden gelir, kullanıcı girdisi değildir.
func (r *sqliteUserRepo) updateColumn(ctx context.Context, userID, column string, value any) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		value, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("user update %s: %w", column, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user update %s rows affected: %w", column, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %s", pkg.ErrNotFound, userID)
	}
	return nil
}

func (r *sqliteUserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("user count: %w", err)
	}
	return n, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var profile, reminders string
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsPremium,
		&profile, &reminders, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(profile), &u.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := json.Unmarshal([]byte(reminders), &u.Reminders); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	return &u, nil
}
