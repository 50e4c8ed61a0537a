package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RotationRepo persists the assignment rotation cursor. A single row holds the
// cursor; reading it FOR UPDATE inside the assignment transaction serializes
// concurrent assignments, which is what makes the rotation fair across racing
// admin clients.
type RotationRepo struct {
	db *pgxpool.Pool
}

func NewRotationRepo(db *pgxpool.Pool) *RotationRepo {
	return &RotationRepo{db: db}
}

// CursorForUpdate reads the rotation cursor with a row lock. The row is
// created lazily on first use.
func (r *RotationRepo) CursorForUpdate(ctx context.Context) (int, error) {
	const op = "RotationRepo.CursorForUpdate"
	q := TxOrDB(ctx, r.db)

	if _, err := q.Exec(ctx,
		`INSERT INTO assignment_rotation (id, cursor) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
	); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var cursor int
	err := q.QueryRow(ctx,
		`SELECT cursor FROM assignment_rotation WHERE id = 1 FOR UPDATE`,
	).Scan(&cursor)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cursor, nil
}

// SetCursor stores the advanced cursor position.
func (r *RotationRepo) SetCursor(ctx context.Context, cursor int) error {
	const op = "RotationRepo.SetCursor"
	q := TxOrDB(ctx, r.db)

	if _, err := q.Exec(ctx,
		`UPDATE assignment_rotation SET cursor = $1, updated_at = now() WHERE id = 1`, cursor,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
