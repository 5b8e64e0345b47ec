package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Andiyp/nauticalapp/internal/alert/model"
)

var ErrNotFound = errors.New("alert not found")

type AlertRepository struct {
	db *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Insert(ctx context.Context, a model.Alert) (model.Alert, error) {
	query := `
		INSERT INTO alerts (id, title, content, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, content, created_at, created_by`

	var created model.Alert
	err := r.db.QueryRow(ctx, query, a.ID, a.Title, a.Content, a.CreatedBy).
		Scan(&created.ID, &created.Title, &created.Content, &created.CreatedAt, &created.CreatedBy)
	if err != nil {
		return model.Alert{}, fmt.Errorf("failed to insert alert: %w", err)
	}
	return created, nil
}

func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns alerts newest first, matching the board order.
func (r *AlertRepository) List(ctx context.Context) ([]model.Alert, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, content, created_at, created_by
		FROM alerts
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
