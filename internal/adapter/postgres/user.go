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

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	const op = "UserRepo.Create"
	q := TxOrDB(ctx, r.db)

	query := `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := q.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.GetPassword(), user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetByEmail returns nil, nil when no user has the email; errors are real
// store failures only.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "UserRepo.GetByEmail"
	q := TxOrDB(ctx, r.db)

	var (
		u    models.User
		hash string
	)
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = $1`

	err := q.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.SetPassword(hash)
	return &u, nil
}

func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "UserRepo.Get"
	q := TxOrDB(ctx, r.db)

	var (
		u    models.User
		hash string
	)
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = $1`

	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.SetPassword(hash)
	return &u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "UserRepo.Delete"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}
	return nil
}
