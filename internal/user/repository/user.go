package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/user/model"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")

const userColumns = `
	id, created_at, updated_at, email, password_hash, role, is_blocked,
	is_skipper, skipper_first_name, skipper_last_name, boat_name, boat_type,
	phone, lat, lng, is_online, last_seen
`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var lat, lng *float64

	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &u.PasswordHash,
		&u.Role, &u.IsBlocked, &u.IsSkipper, &u.SkipperFirstName,
		&u.SkipperLastName, &u.BoatName, &u.BoatType, &u.Phone,
		&lat, &lng, &u.IsOnline, &u.LastSeen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}

	if lat != nil && lng != nil {
		u.Location = &model.Location{Lat: *lat, Lng: *lng}
	}
	return u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, tx pgx.Tx, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (
			id, email, password_hash, role, is_blocked, is_skipper,
			skipper_first_name, skipper_last_name, boat_name, boat_type, phone
		)
		VALUES ($1, $2, $3, 'user', false, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	row := tx.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.IsSkipper,
		user.SkipperFirstName, user.SkipperLastName,
		user.BoatName, user.BoatType, user.Phone,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// Lookup implements the auth gate's identity source.
func (r *UserRepository) Lookup(ctx context.Context, userID string) (auth.Identity, error) {
	var identity auth.Identity
	var role model.Role

	err := r.db.QueryRow(ctx,
		`SELECT id, role, is_blocked FROM users WHERE id = $1`, userID,
	).Scan(&identity.UserID, &role, &identity.Blocked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Identity{}, ErrUserNotFound
		}
		return auth.Identity{}, fmt.Errorf("failed to look up identity: %w", err)
	}

	identity.Role = string(role)
	return identity, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (model.User, error) {
	query := `
		UPDATE users
		SET
			is_skipper = COALESCE($2, is_skipper),
			skipper_first_name = COALESCE($3, skipper_first_name),
			skipper_last_name = COALESCE($4, skipper_last_name),
			boat_name = COALESCE($5, boat_name),
			boat_type = COALESCE($6, boat_type),
			phone = COALESCE($7, phone),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query, userID,
		upd.IsSkipper, upd.SkipperFirstName, upd.SkipperLastName,
		upd.BoatName, upd.BoatType, upd.Phone,
	)
	return scanUser(row)
}

// Fleet returns every non-blocked profile for the live map.
func (r *UserRepository) Fleet(ctx context.Context) ([]model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_blocked = false
		ORDER BY boat_name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fleet: %w", err)
	}
	defer rows.Close()

	var fleet []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, u)
	}
	return fleet, rows.Err()
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MarkOnline flips the presence flag at sign-in time.
func (r *UserRepository) MarkOnline(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET is_online = true, last_seen = now(), updated_at = now() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark user online: %w", err)
	}
	return nil
}

func (r *UserRepository) InsertResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO password_resets (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}
	return nil
}

var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

// ConsumeResetToken redeems a token at most once. The conditional UPDATE makes
// concurrent redemptions race safely: only one caller gets the user id back.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.db.QueryRow(ctx, `
		UPDATE password_resets
		SET used = true
		WHERE token = $1 AND used = false AND expires_at > now()
		RETURNING user_id
	`, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrResetTokenInvalid
		}
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}

func isUniqueViolation(err error) bool {
	// 23505 is Postgres unique_violation.
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
