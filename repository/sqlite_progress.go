package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
)

type sqliteProgressRepo struct {
	db database.TxQuerier
}

// NewSQLiteProgressRepo, constructor.
func NewSQLiteProgressRepo(db database.TxQuerier) ProgressRepository {
	return &sqliteProgressRepo{db: db}
}

func (r *sqliteProgressRepo) Create(ctx context.Context, e *models.ProgressEntry) error {
	var workoutType sql.NullString
	var duration, burned *float64
	if e.Workout != nil {
		workoutType = sql.NullString{String: e.Workout.Type, Valid: e.Workout.Type != ""}
		duration, burned = e.Workout.Duration, e.Workout.CaloriesBurned
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO progress_entries
			(id, user_id, date, weight, calories, water, protein, carbs, fat,
			 workout_type, workout_duration, workout_calories, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date, e.Weight, e.Calories, e.Water, e.Protein, e.Carbs, e.Fat,
		workoutType, duration, burned, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("progress create: %w", err)
	}
	return nil
}

func (r *sqliteProgressRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, date, weight, calories, water, protein, carbs, fat,
		       workout_type, workout_duration, workout_calories, notes, created_at, updated_at
		FROM progress_entries
		WHERE user_id = ?
		ORDER BY date DESC, rowid DESC
		LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("progress list: %w", err)
	}
	defer rows.Close()

	entries := []models.ProgressEntry{}
	for rows.Next() {
		var e models.ProgressEntry
		var workoutType sql.NullString
		var duration, burned *float64
		if err := rows.Scan(
			&e.ID, &e.UserID, scanTime(&e.Date), &e.Weight, &e.Calories, &e.Water, &e.Protein, &e.Carbs, &e.Fat,
			&workoutType, &duration, &burned, &e.Notes, scanTime(&e.CreatedAt), scanTime(&e.UpdatedAt),
		); err != nil {
			return nil, fmt.Errorf("progress list scan: %w", err)
		}
		if workoutType.Valid || duration != nil || burned != nil {
			e.Workout = &models.Workout{Type: workoutType.String, Duration: duration, CaloriesBurned: burned}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *sqliteProgressRepo) Delete(ctx context.Context, userID, entryID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM progress_entries WHERE id = ? AND user_id = ?`, entryID, userID,
	)
	if err != nil {
		return fmt.Errorf("progress delete: %w", err)
	}

	return requireAffected(result, "progress entry", entryID)
}
