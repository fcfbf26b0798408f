package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	users := &service.UserService{Store: f.store, Now: f.clock.Now}

	u := seedUser(t, f, "a@x.com")

	t.Run("get by id", func(t *testing.T) {
		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "a@x.com", got.Username)

		_, err = users.GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("lock and unlock", func(t *testing.T) {
		locked, err := users.SetStatus(ctx, "a@x.com", domain.StatusLocked)
		require.NoError(t, err)
		require.True(t, locked.IsLocked())

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.IsLocked())

		_, err = users.SetStatus(ctx, "a@x.com", domain.StatusActive)
		require.NoError(t, err)
		got, err = users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, got.IsLocked())
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := users.SetStatus(ctx, "a@x.com", "banned")
		require.ErrorIs(t, err, service.ErrInvalidStatus)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := users.SetStatus(ctx, "ghost@x.com", domain.StatusLocked)
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}
