package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/store"
	"github.com/aussiebroadwan/edura/pkg/cryptox"
	"github.com/aussiebroadwan/edura/pkg/idx"
)

// ResetCodeDigits is the length of an emailed reset code.
const ResetCodeDigits = 6

var (
	ErrCodeNotFound = errors.New("reset code not found")
	ErrCodeExpired  = errors.New("reset code expired")
)

// ResetCodeService owns the lifecycle of password reset codes. Codes are
// stored as fingerprints, never in clear text.
type ResetCodeService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *ResetCodeService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Generate returns a uniformly random code from 000000 to 999999.
func (s *ResetCodeService) Generate() (string, error) {
	return cryptox.GenerateNumericCode(ResetCodeDigits)
}

// InvalidateAndStore replaces every unused code for email with code. The
// delete and insert share a transaction. If a concurrent request wins the
// race for the single unused slot, the replacement is retried once so the
// latest code is the one that survives.
func (s *ResetCodeService) InvalidateAndStore(ctx context.Context, email, code, userID, username string) (domain.ResetCode, error) {
	rc := domain.ResetCode{
		ID:        idx.New().String(),
		Email:     email,
		CodeHash:  cryptox.FingerprintToken(code),
		UserID:    userID,
		Username:  username,
		CreatedAt: s.now(),
	}

	replace := func(tx store.Tx) error {
		if err := tx.ResetCodes().DeleteUnusedResetCodes(ctx, email); err != nil {
			return err
		}
		return tx.ResetCodes().CreateResetCode(ctx, rc)
	}

	err := s.Store.WithTx(ctx, replace)
	if errors.Is(err, store.ErrAlreadyExists) {
		err = s.Store.WithTx(ctx, replace)
	}
	if err != nil {
		return domain.ResetCode{}, err
	}
	return rc, nil
}

// Validate finds the unused code for email. It does not consume it.
func (s *ResetCodeService) Validate(ctx context.Context, email, code string) (domain.ResetCode, error) {
	rc, err := s.Store.ResetCodes().GetUnusedResetCode(ctx, email, cryptox.FingerprintToken(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ResetCode{}, ErrCodeNotFound
		}
		return domain.ResetCode{}, err
	}

	if rc.ExpiredAt(s.now()) {
		return domain.ResetCode{}, ErrCodeExpired
	}
	return rc, nil
}

// Consume marks the code used. Consuming a used code again is a no-op.
func (s *ResetCodeService) Consume(ctx context.Context, id string) error {
	return s.Store.ResetCodes().MarkResetCodeUsed(ctx, id)
}
