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

type RefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepo(db *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Create(ctx context.Context, rec *models.RefreshTokenRecord) error {
	const op = "RefreshTokenRepo.Create"
	q := TxOrDB(ctx, r.db)

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.UserID, rec.TokenHash, rec.ExpiresAt,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetByHash returns the stored record for a token hash. Expired and revoked
// tokens are filtered here so callers only see live rows.
func (r *RefreshTokenRepo) GetByHash(ctx context.Context, hash string) (*models.RefreshTokenRecord, error) {
	const op = "RefreshTokenRepo.GetByHash"
	q := TxOrDB(ctx, r.db)

	var rec models.RefreshTokenRecord
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > $2`

	err := q.QueryRow(ctx, query, hash, time.Now()).Scan(
		&rec.ID, &rec.UserID, &rec.TokenHash, &rec.ExpiresAt, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rec, nil
}

func (r *RefreshTokenRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	const op = "RefreshTokenRepo.Revoke"
	q := TxOrDB(ctx, r.db)

	cmd, err := q.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`,
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// RevokeAllForUser invalidates every live refresh token of a user, used when
// the account is removed from the roster.
func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	const op = "RefreshTokenRepo.RevokeAllForUser"
	q := TxOrDB(ctx, r.db)

	_, err := q.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL`,
		userID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
