package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/store/drivers/sqlite/gen"
)

type resetCodesRepo struct {
	q *gen.Queries
}

func (r *resetCodesRepo) CreateResetCode(ctx context.Context, c domain.ResetCode) error {
	err := r.q.CreateResetCode(ctx, gen.CreateResetCodeParams{
		ID:        c.ID,
		Email:     c.Email,
		CodeHash:  c.CodeHash,
		UserID:    c.UserID,
		Username:  c.Username,
		CreatedAt: c.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *resetCodesRepo) DeleteUnusedResetCodes(ctx context.Context, email string) error {
	return r.q.DeleteUnusedResetCodes(ctx, email)
}

func (r *resetCodesRepo) GetUnusedResetCode(ctx context.Context, email, codeHash string) (domain.ResetCode, error) {
	row, err := r.q.GetUnusedResetCode(ctx, gen.GetUnusedResetCodeParams{
		Email:    email,
		CodeHash: codeHash,
	})
	if err != nil {
		return domain.ResetCode{}, mapNotFound(err)
	}
	return mapResetCode(row), nil
}

func (r *resetCodesRepo) MarkResetCodeUsed(ctx context.Context, id string) error {
	return requireRow(r.q.MarkResetCodeUsed(ctx, id))
}

func (r *resetCodesRepo) DeleteStaleResetCodes(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteStaleResetCodes(ctx, cutoff.UTC())
}
