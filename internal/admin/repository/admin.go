package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	usermodel "github.com/Andiyp/nauticalapp/internal/user/model"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `
	id, created_at, updated_at, email, password_hash, role, is_blocked,
	is_skipper, skipper_first_name, skipper_last_name, boat_name, boat_type,
	phone, lat, lng, is_online, last_seen
`

// AdminRepository covers the moderation writes: role and block flags, plus
// the member listing the admin console shows.
type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

func scanUser(row pgx.Row) (usermodel.User, error) {
	var u usermodel.User
	var lat, lng *float64

	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &u.PasswordHash,
		&u.Role, &u.IsBlocked, &u.IsSkipper, &u.SkipperFirstName,
		&u.SkipperLastName, &u.BoatName, &u.BoatType, &u.Phone,
		&lat, &lng, &u.IsOnline, &u.LastSeen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return usermodel.User{}, ErrUserNotFound
		}
		return usermodel.User{}, fmt.Errorf("failed to scan user: %w", err)
	}

	if lat != nil && lng != nil {
		u.Location = &usermodel.Location{Lat: *lat, Lng: *lng}
	}
	return u, nil
}

// ListUsersExcept returns every member except the calling admin, blocked
// profiles included, so the console can unblock them.
func (r *AdminRepository) ListUsersExcept(ctx context.Context, excludeID string) ([]usermodel.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id <> $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []usermodel.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *AdminRepository) SetRole(ctx context.Context, userID string, role usermodel.Role) (usermodel.User, error) {
	query := `
		UPDATE users
		SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, userID, role))
}

func (r *AdminRepository) SetBlocked(ctx context.Context, userID string, blocked bool) (usermodel.User, error) {
	query := `
		UPDATE users
		SET is_blocked = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, userID, blocked))
}
