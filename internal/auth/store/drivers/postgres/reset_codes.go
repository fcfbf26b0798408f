package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
)

type resetCodesRepo struct {
	db DBTX
}

func (r *resetCodesRepo) CreateResetCode(ctx context.Context, c domain.ResetCode) error {
	query :=
		`INSERT INTO password_reset_codes (id, email, code_hash, user_id, username, created_at, used)
		 VALUES ($1, $2, $3, $4, $5, $6, FALSE)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Email, c.CodeHash, c.UserID, c.Username, c.CreatedAt.UTC())
	return mapError(err)
}

func (r *resetCodesRepo) DeleteUnusedResetCodes(ctx context.Context, email string) error {
	query := `DELETE FROM password_reset_codes WHERE email = $1 AND NOT used`
	_, err := r.db.ExecContext(ctx, query, email)
	return mapError(err)
}

func (r *resetCodesRepo) GetUnusedResetCode(ctx context.Context, email, codeHash string) (domain.ResetCode, error) {
	query :=
		`SELECT id, email, code_hash, user_id, username, created_at, used
		 FROM password_reset_codes
		 WHERE email = $1 AND code_hash = $2 AND NOT used`

	var c domain.ResetCode
	err := r.db.QueryRowContext(ctx, query, email, codeHash).Scan(
		&c.ID, &c.Email, &c.CodeHash, &c.UserID, &c.Username, &c.CreatedAt, &c.Used)
	if err != nil {
		return domain.ResetCode{}, mapError(err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (r *resetCodesRepo) MarkResetCodeUsed(ctx context.Context, id string) error {
	query := `UPDATE password_reset_codes SET used = TRUE WHERE id = $1`
	return requireRow(r.db.ExecContext(ctx, query, id))
}

func (r *resetCodesRepo) DeleteStaleResetCodes(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM password_reset_codes WHERE used OR created_at < $1`

	res, err := r.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
