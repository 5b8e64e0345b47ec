package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

var ErrUserNotFound = errors.New("user not found")

// PresenceRepository owns the liveness columns on the users table. Every
// write also bumps last_seen so the stale sweep has a single clock to read.
type PresenceRepository struct {
	db *pgxpool.Pool
}

func NewPresenceRepository(db *pgxpool.Pool) *PresenceRepository {
	return &PresenceRepository{db: db}
}

func (r *PresenceRepository) SetOnline(ctx context.Context, userID string) error {
	return r.setFlag(ctx, userID, true)
}

func (r *PresenceRepository) SetOffline(ctx context.Context, userID string) error {
	return r.setFlag(ctx, userID, false)
}

func (r *PresenceRepository) setFlag(ctx context.Context, userID string, online bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_online = $2, last_seen = now()
		WHERE id = $1`, userID, online)
	if err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PresenceRepository) UpdateLocation(ctx context.Context, userID string, loc usermodel.Location) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET lat = $2, lng = $3, is_online = true, last_seen = now()
		WHERE id = $1`, userID, loc.Lat, loc.Lng)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MarkStale flips everyone silent for longer than olderThan to offline and
// returns their ids so the caller can announce the change.
func (r *PresenceRepository) MarkStale(ctx context.Context, olderThan time.Duration) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE users
		SET is_online = false
		WHERE is_online = true AND last_seen < now() - $1::interval
		RETURNING id`, fmt.Sprintf("%d seconds", int(olderThan.Seconds())))
	if err != nil {
		return nil, fmt.Errorf("failed to mark stale users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan stale user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
