package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/store"
	"github.com/aussiebroadwan/edura/pkg/cryptox"
	"github.com/aussiebroadwan/edura/pkg/idx"
	"github.com/aussiebroadwan/edura/pkg/slogx"
)

// BootstrapService creates administrator accounts. Public registration can
// only ever produce RoleUser accounts, so this is the one way in for admins.
type BootstrapService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	Now    func() time.Time
}

// CreateAdmin validates in like a registration and stores an active admin.
func (s *BootstrapService) CreateAdmin(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Same field rules as public registration
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	// 2. Hash password
	passHash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("failed to hash admin password", slogx.Err(err))
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	// 3. Create the admin user
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	admin := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     in.Username,
		FullName:     in.FullName,
		PasswordHash: passHash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateUsername
		}
		return domain.User{}, err
	}

	l.Info("created admin account", slog.String("admin_user_id", admin.ID))
	return admin, nil
}
