package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

type TripRepo struct {
	db *pgxpool.Pool
}

func NewTripRepo(db *pgxpool.Pool) *TripRepo {
	return &TripRepo{db: db}
}

const tripColumns = `id, driver_id, company_name, trip_date, status, assigned_at, created_at`

func scanTrip(row pgx.Row, t *models.Trip) error {
	return row.Scan(
		&t.ID, &t.DriverID, &t.CompanyName, &t.Date, &t.Status, &t.AssignedAt, &t.CreatedAt,
	)
}

// CreateBatch inserts all trips of one assignment. Callers run it inside the
// assignment transaction, so either every trip lands or none do.
func (r *TripRepo) CreateBatch(ctx context.Context, trips []models.Trip) error {
	const op = "TripRepo.CreateBatch"
	q := TxOrDB(ctx, r.db)

	query := `
		INSERT INTO trips (id, driver_id, company_name, trip_date, status, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	for i := range trips {
		t := &trips[i]
		err := q.QueryRow(ctx, query,
			t.ID, t.DriverID, t.CompanyName, t.Date, t.Status, t.AssignedAt,
		).Scan(&t.CreatedAt)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (r *TripRepo) Get(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	const op = "TripRepo.Get"
	q := TxOrDB(ctx, r.db)

	var t models.Trip
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	if err := scanTrip(q.QueryRow(ctx, query, id), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrTripNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &t, nil
}

// UpdateStatus is the compare-and-set transition guard: the row only changes
// when it is still in the expected state. Returns false when the precondition
// no longer held, so a retried accept cannot double-apply.
func (r *TripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to types.TripStatus) (bool, error) {
	const op = "TripRepo.UpdateStatus"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx,
		`UPDATE trips SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return cmd.RowsAffected() == 1, nil
}

// List returns trips, newest first, optionally filtered by driver.
func (r *TripRepo) List(ctx context.Context, driverID *uuid.UUID) ([]models.Trip, error) {
	const op = "TripRepo.List"
	q := TxOrDB(ctx, r.db)

	query := `SELECT ` + tripColumns + ` FROM trips`
	args := []any{}
	if driverID != nil {
		query += ` WHERE driver_id = $1`
		args = append(args, *driverID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return collectTrips(rows, op)
}

// ListByDate returns all trips dated the given calendar day.
func (r *TripRepo) ListByDate(ctx context.Context, date time.Time) ([]models.Trip, error) {
	const op = "TripRepo.ListByDate"
	q := TxOrDB(ctx, r.db)

	query := `SELECT ` + tripColumns + ` FROM trips WHERE trip_date = $1 ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, date.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return collectTrips(rows, op)
}

func collectTrips(rows pgx.Rows, op string) ([]models.Trip, error) {
	var trips []models.Trip
	for rows.Next() {
		var t models.Trip
		if err := scanTrip(rows, &t); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return trips, nil
}
