package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{db: db}
}

const driverColumns = `
	id, user_id, name, serial_number, monthly_trips, monthly_target,
	is_online, is_available, created_at, updated_at`

func scanDriver(row pgx.Row, d *models.Driver) error {
	return row.Scan(
		&d.ID, &d.UserID, &d.Name, &d.SerialNumber, &d.MonthlyTrips,
		&d.MonthlyTarget, &d.IsOnline, &d.IsAvailable, &d.CreatedAt, &d.UpdatedAt,
	)
}

// Create inserts a driver, assigning serial_number = max(existing) + 1, or 1
// for an empty roster. The serial read and the insert run in the caller's
// registration transaction; if two registrations race, the unique index on
// serial_number rejects the loser and the transaction rolls back.
func (r *DriverRepo) Create(ctx context.Context, driver *models.Driver) error {
	const op = "DriverRepo.Create"
	q := TxOrDB(ctx, r.db)

	serial, err := nextSerialNumber(ctx, q)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	driver.SerialNumber = serial

	query := `
		INSERT INTO drivers (id, user_id, name, serial_number, monthly_trips, monthly_target, is_online, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err = q.QueryRow(ctx, query,
		driver.ID,
		driver.UserID,
		driver.Name,
		driver.SerialNumber,
		driver.MonthlyTrips,
		driver.MonthlyTarget,
		driver.IsOnline,
		driver.IsAvailable,
	).Scan(&driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// nextSerialNumber returns the next free fleet serial. Serials grow
// monotonically and are never reused, so removed drivers leave gaps.
func nextSerialNumber(ctx context.Context, q Querier) (int, error) {
	var maxSerial int
	err := q.QueryRow(ctx, `SELECT COALESCE(MAX(serial_number), 0) FROM drivers`).Scan(&maxSerial)
	if err != nil {
		return 0, err
	}
	return maxSerial + 1, nil
}

func (r *DriverRepo) Get(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	const op = "DriverRepo.Get"
	q := TxOrDB(ctx, r.db)

	var d models.Driver
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	if err := scanDriver(q.QueryRow(ctx, query, id), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrDriverNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &d, nil
}

// GetByUserID resolves the roster row belonging to a user account.
func (r *DriverRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error) {
	const op = "DriverRepo.GetByUserID"
	q := TxOrDB(ctx, r.db)

	var d models.Driver
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE user_id = $1`

	if err := scanDriver(q.QueryRow(ctx, query, userID), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrDriverNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &d, nil
}

// List returns the whole roster ordered by serial number.
func (r *DriverRepo) List(ctx context.Context) ([]models.Driver, error) {
	const op = "DriverRepo.List"
	q := TxOrDB(ctx, r.db)

	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY serial_number, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var d models.Driver
		if err := scanDriver(rows, &d); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		drivers = append(drivers, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return drivers, nil
}

// ListEligible returns online AND available drivers sorted ascending by
// serial number with id as the deterministic tie-break.
func (r *DriverRepo) ListEligible(ctx context.Context) ([]models.Driver, error) {
	const op = "DriverRepo.ListEligible"
	q := TxOrDB(ctx, r.db)

	query := `SELECT ` + driverColumns + `
		FROM drivers
		WHERE is_online AND is_available
		ORDER BY serial_number, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var d models.Driver
		if err := scanDriver(rows, &d); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		drivers = append(drivers, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return drivers, nil
}

func (r *DriverRepo) SetOnline(ctx context.Context, id uuid.UUID, online bool) error {
	const op = "DriverRepo.SetOnline"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx,
		`UPDATE drivers SET is_online = $2, updated_at = now() WHERE id = $1`, id, online)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	const op = "DriverRepo.SetAvailability"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx,
		`UPDATE drivers SET is_available = $2, updated_at = now() WHERE id = $1`, id, available)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepo) SetMonthlyTarget(ctx context.Context, id uuid.UUID, target int) error {
	const op = "DriverRepo.SetMonthlyTarget"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx,
		`UPDATE drivers SET monthly_target = $2, updated_at = now() WHERE id = $1`, id, target)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

// IncrementMonthlyTrips bumps the accepted-trip counter by exactly one.
func (r *DriverRepo) IncrementMonthlyTrips(ctx context.Context, id uuid.UUID) error {
	const op = "DriverRepo.IncrementMonthlyTrips"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx,
		`UPDATE drivers SET monthly_trips = monthly_trips + 1, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

// ResetMonthlyTrips zeroes every counter. Returns how many rows changed.
func (r *DriverRepo) ResetMonthlyTrips(ctx context.Context) (int, error) {
	const op = "DriverRepo.ResetMonthlyTrips"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx,
		`UPDATE drivers SET monthly_trips = 0, updated_at = now()`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(cmd.RowsAffected()), nil
}

func (r *DriverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "DriverRepo.Delete"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}
