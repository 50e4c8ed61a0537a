package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tanker-union/fleet-system/internal/domain/models"
)

type CompanyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepo(db *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create writes the company-request record. Written exactly once per
// assignment and immutable afterwards.
func (r *CompanyRepo) Create(ctx context.Context, c *models.CompanyRequest) error {
	const op = "CompanyRepo.Create"
	q := TxOrDB(ctx, r.db)

	query := `
		INSERT INTO companies (id, name, trips_requested, vehicles_assigned, assignment_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := q.QueryRow(ctx, query,
		c.ID, c.Name, c.TripsRequested, c.VehiclesAssigned, c.AssignmentDate,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// List returns company requests, newest first.
func (r *CompanyRepo) List(ctx context.Context) ([]models.CompanyRequest, error) {
	const op = "CompanyRepo.List"
	q := TxOrDB(ctx, r.db)

	query := `
		SELECT id, name, trips_requested, vehicles_assigned, assignment_date, created_at
		FROM companies
		ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return collectCompanies(rows, op)
}

// ListByDate returns company requests for one assignment date.
func (r *CompanyRepo) ListByDate(ctx context.Context, date time.Time) ([]models.CompanyRequest, error) {
	const op = "CompanyRepo.ListByDate"
	q := TxOrDB(ctx, r.db)

	query := `
		SELECT id, name, trips_requested, vehicles_assigned, assignment_date, created_at
		FROM companies
		WHERE assignment_date = $1
		ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, date.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return collectCompanies(rows, op)
}

func collectCompanies(rows pgx.Rows, op string) ([]models.CompanyRequest, error) {
	var companies []models.CompanyRequest
	for rows.Next() {
		var c models.CompanyRequest
		if err := rows.Scan(
			&c.ID, &c.Name, &c.TripsRequested, &c.VehiclesAssigned, &c.AssignmentDate, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return companies, nil
}
