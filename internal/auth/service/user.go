package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/store"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidStatus = errors.New("invalid account status")
)

// UserService covers account reads and the administrative status change.
type UserService struct {
	Store store.Store
	Now   func() time.Time
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// SetStatus locks or unlocks the account with the given username.
func (s *UserService) SetStatus(ctx context.Context, username, status string) (domain.User, error) {
	if !domain.ValidStatus(status) {
		return domain.User{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	var out domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			return err
		}
		if err := tx.Users().UpdateStatus(ctx, u.ID, status, now); err != nil {
			return err
		}
		u.Status = status
		u.UpdatedAt = now
		out = u
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return out, err
}
