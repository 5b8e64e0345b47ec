package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Andiyp/nauticalapp/internal/sos/model"
)

var ErrNotFound = errors.New("sos request not found")

const sosColumns = `
	id, user_id, boat_name, type, lat, lng, status, created_at, phone,
	details, skipper_name, boat_type,
	accepted_by_user_id, accepted_by_boat_name, accepted_at
`

type SOSRepository struct {
	db *pgxpool.Pool
}

func NewSOSRepository(db *pgxpool.Pool) *SOSRepository {
	return &SOSRepository{db: db}
}

func scanSOS(row pgx.Row) (model.SOSRequest, error) {
	var s model.SOSRequest
	var acceptance model.Acceptance
	var acceptedByUserID, acceptedByBoatName *string
	var acceptedAt *time.Time

	err := row.Scan(
		&s.ID, &s.UserID, &s.BoatName, &s.Type,
		&s.Location.Lat, &s.Location.Lng,
		&s.Status, &s.CreatedAt, &s.Phone,
		&s.Details, &s.SkipperName, &s.BoatType,
		&acceptedByUserID, &acceptedByBoatName, &acceptedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SOSRequest{}, ErrNotFound
		}
		return model.SOSRequest{}, fmt.Errorf("failed to scan sos request: %w", err)
	}

	if acceptedByUserID != nil && acceptedByBoatName != nil && acceptedAt != nil {
		acceptance.UserID = *acceptedByUserID
		acceptance.BoatName = *acceptedByBoatName
		acceptance.AcceptedAt = *acceptedAt
		s.AcceptedBy = &acceptance
	}
	return s, nil
}

// Insert creates the request with server-assigned id and timestamp; the
// column default fixes status to active so a crafted payload cannot start
// anywhere else in the lifecycle.
func (r *SOSRepository) Insert(ctx context.Context, s model.SOSRequest) (model.SOSRequest, error) {
	query := `
		INSERT INTO sos_requests (
			id, user_id, boat_name, type, lat, lng, phone,
			details, skipper_name, boat_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + sosColumns

	row := r.db.QueryRow(ctx, query,
		s.ID, s.UserID, s.BoatName, s.Type,
		s.Location.Lat, s.Location.Lng, s.Phone,
		s.Details, s.SkipperName, s.BoatType,
	)

	created, err := scanSOS(row)
	if err != nil {
		return model.SOSRequest{}, fmt.Errorf("failed to insert sos request: %w", err)
	}
	return created, nil
}

func (r *SOSRepository) GetByID(ctx context.Context, id string) (model.SOSRequest, error) {
	query := `SELECT ` + sosColumns + ` FROM sos_requests WHERE id = $1`
	return scanSOS(r.db.QueryRow(ctx, query, id))
}

// Accept performs the one write in the system where at-most-once matters.
// The status and requester predicates live inside the UPDATE itself, so the
// store serializes concurrent accepts: exactly one caller gets a row back,
// every racer loses and is told why.
func (r *SOSRepository) Accept(ctx context.Context, id, acceptorID, acceptorBoatName string) (model.SOSRequest, error) {
	query := `
		UPDATE sos_requests
		SET
			status = 'accepted',
			accepted_by_user_id = $2,
			accepted_by_boat_name = $3,
			accepted_at = now()
		WHERE id = $1 AND status = 'active' AND user_id <> $2
		RETURNING ` + sosColumns

	accepted, err := scanSOS(r.db.QueryRow(ctx, query, id, acceptorID, acceptorBoatName))
	if err == nil {
		return accepted, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.SOSRequest{}, fmt.Errorf("failed to accept sos request: %w", err)
	}

	// Zero rows: re-read to report the precise reason.
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return model.SOSRequest{}, getErr
	}
	return model.SOSRequest{}, current.CanBeAcceptedBy(acceptorID)
}

// Resolve moves any non-resolved request to resolved. Resolving an already
// resolved request reports success without touching the row.
func (r *SOSRepository) Resolve(ctx context.Context, id string) (model.SOSRequest, bool, error) {
	query := `
		UPDATE sos_requests
		SET status = 'resolved'
		WHERE id = $1 AND status <> 'resolved'
		RETURNING ` + sosColumns

	resolved, err := scanSOS(r.db.QueryRow(ctx, query, id))
	if err == nil {
		return resolved, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.SOSRequest{}, false, fmt.Errorf("failed to resolve sos request: %w", err)
	}

	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return model.SOSRequest{}, false, getErr
	}
	// Already resolved: idempotent success.
	return current, false, nil
}

// List returns requests newest first, the order every subscription snapshot
// uses. An optional status narrows the list server-side; the full list is
// what feed consumers filter client-side.
func (r *SOSRepository) List(ctx context.Context, status *model.Status) ([]model.SOSRequest, error) {
	query := `SELECT ` + sosColumns + ` FROM sos_requests`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sos requests: %w", err)
	}
	defer rows.Close()

	var requests []model.SOSRequest
	for rows.Next() {
		s, err := scanSOS(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, s)
	}
	return requests, rows.Err()
}
