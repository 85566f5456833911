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

type sqliteCustomMealRepo struct {
	db database.TxQuerier
}

// NewSQLiteCustomMealRepo, constructor.
func NewSQLiteCustomMealRepo(db database.TxQuerier) CustomMealRepository {
	return &sqliteCustomMealRepo{db: db}
}

const customMealSelect = `
	SELECT m.id, m.user_id, u.name, m.name, m.description,
	       m.calories, m.protein, m.carbs, m.fat, m.fiber,
	       m.serving, m.ingredients, m.category, m.meal_time, m.is_public,
	       m.created_at, m.updated_at
	FROM custom_meals m
	JOIN users u ON u.id = m.user_id`

func (r *sqliteCustomMealRepo) Create(ctx context.Context, m *models.CustomMeal) error {
	ingredients, err := json.Marshal(m.Ingredients)
	if err != nil {
		return fmt.Errorf("custom meal create marshal ingredients: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO custom_meals
			(id, user_id, name, description, calories, protein, carbs, fat, fiber,
			 serving, ingredients, category, meal_time, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Name, m.Description, m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber,
		m.Serving, string(ingredients), m.Category, m.MealTime, m.IsPublic, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("custom meal create: %w", err)
	}
	return nil
}

func (r *sqliteCustomMealRepo) GetByID(ctx context.Context, id string) (*models.CustomMeal, error) {
	meal, err := scanCustomMeal(r.db.QueryRowContext(ctx, customMealSelect+` WHERE m.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: meal %s", pkg.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("custom meal get by id: %w", err)
	}
	return meal, nil
}

func (r *sqliteCustomMealRepo) ListByUser(ctx context.Context, userID string) ([]models.CustomMeal, error) {
	meals, err := r.list(ctx, customMealSelect+` WHERE m.user_id = ? ORDER BY m.created_at DESC, m.rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("custom meal list by user: %w", err)
	}
	for i := range meals {
		meals[i].Owner = nil
	}
	return meals, nil
}

// SearchPublic, isimde Unicode büyük/küçük harf duyarsız arar (fold + LIKE).
func (r *sqliteCustomMealRepo) SearchPublic(ctx context.Context, query string, limit int) ([]models.CustomMeal, error) {
	q := customMealSelect + ` WHERE m.is_public = 1`
	args := []any{}
	if query != "" {
		q += ` AND fold(m.name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(database.Fold(query)))
	}
	q += ` ORDER BY m.created_at DESC, m.rowid DESC LIMIT ?`
	args = append(args, limit)

	meals, err := r.list(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("custom meal search public: %w", err)
	}
	return meals, nil
}

func (r *sqliteCustomMealRepo) Update(ctx context.Context, m *models.CustomMeal) error {
	ingredients, err := json.Marshal(m.Ingredients)
	if err != nil {
		return fmt.Errorf("custom meal update marshal ingredients: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE custom_meals
		SET name = ?, description = ?, calories = ?, protein = ?, carbs = ?, fat = ?, fiber = ?,
		    serving = ?, ingredients = ?, category = ?, meal_time = ?, is_public = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		m.Name, m.Description, m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber,
		m.Serving, string(ingredients), m.Category, m.MealTime, m.IsPublic, m.UpdatedAt,
		m.ID, m.UserID,
	)
	if err != nil {
		return fmt.Errorf("custom meal update: %w", err)
	}
	return requireAffected(result, "meal", m.ID)
}

func (r *sqliteCustomMealRepo) Delete(ctx context.Context, userID, mealID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM custom_meals WHERE id = ? AND user_id = ?`, mealID, userID,
	)
	if err != nil {
		return fmt.Errorf("custom meal delete: %w", err)
	}
	return requireAffected(result, "meal", mealID)
}

func (r *sqliteCustomMealRepo) list(ctx context.Context, query string, args ...any) ([]models.CustomMeal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := []models.CustomMeal{}
	for rows.Next() {
		meal, err := scanCustomMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, *meal)
	}
	return meals, rows.Err()
}

func scanCustomMeal(row rowScanner) (*models.CustomMeal, error) {
	var m models.CustomMeal
	var owner models.PublicUser
	var ingredients string
	if err := row.Scan(
		&m.ID, &m.UserID, &owner.Name, &m.Name, &m.Description,
		&m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.Fiber,
		&m.Serving, &ingredients, &m.Category, &m.MealTime, &m.IsPublic,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(ingredients), &m.Ingredients); err != nil {
		return nil, fmt.Errorf("decode meal %s ingredients: %w", m.ID, err)
	}
	if m.Ingredients == nil {
		m.Ingredients = []string{}
	}

	owner.ID = m.UserID
	m.Owner = &owner
	return &m, nil
}

// requireAffected, hiçbir satır etkilenmediyse pkg.ErrNotFound döner.
func requireAffected(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", kind, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %s", pkg.ErrNotFound, kind, id)
	}
	return nil
}
