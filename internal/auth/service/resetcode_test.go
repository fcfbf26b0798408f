package service_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/pkg/idx"
	"github.com/stretchr/testify/require"
)

// seedUser inserts an account directly so code tests have an owner.
func seedUser(t *testing.T, f *fixture, username string) domain.User {
	t.Helper()
	now := f.clock.Now()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     username,
		FullName:     "Seed User",
		PasswordHash: "unused",
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.store.Users().CreateUser(context.Background(), u))
	return u
}

func TestResetCodeService_Generate(t *testing.T) {
	codes := &service.ResetCodeService{}
	digits := regexp.MustCompile(`^\d{6}$`)

	for range 200 {
		code, err := codes.Generate()
		require.NoError(t, err)
		require.Regexp(t, digits, code)
	}
}

func TestResetCodeService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"fresh", 0, nil},
		{"599 seconds", 599 * time.Second, nil},
		{"600 seconds", 600 * time.Second, nil},
		{"601 seconds", 601 * time.Second, service.ErrCodeExpired},
		{"an hour", time.Hour, service.ErrCodeExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			u := seedUser(t, f, "a@x.com")

			stored, err := f.codes.InvalidateAndStore(ctx, u.Username, "042137", u.ID, u.Username)
			require.NoError(t, err)

			f.clock.Advance(tt.elapsed)
			rc, err := f.codes.Validate(ctx, u.Username, "042137")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, stored.ID, rc.ID)
			require.Equal(t, u.ID, rc.UserID)
			require.False(t, rc.Used)
		})
	}
}

func TestResetCodeService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := seedUser(t, f, "a@x.com")

	first, err := f.codes.InvalidateAndStore(ctx, u.Username, "111111", u.ID, u.Username)
	require.NoError(t, err)
	require.NotEqual(t, "111111", first.CodeHash)

	t.Run("new code replaces the old one", func(t *testing.T) {
		_, err := f.codes.InvalidateAndStore(ctx, u.Username, "222222", u.ID, u.Username)
		require.NoError(t, err)

		_, err = f.codes.Validate(ctx, u.Username, "111111")
		require.ErrorIs(t, err, service.ErrCodeNotFound)
	})

	t.Run("wrong code or email", func(t *testing.T) {
		_, err := f.codes.Validate(ctx, u.Username, "333333")
		require.ErrorIs(t, err, service.ErrCodeNotFound)

		_, err = f.codes.Validate(ctx, "b@x.com", "222222")
		require.ErrorIs(t, err, service.ErrCodeNotFound)
	})

	t.Run("validate does not consume", func(t *testing.T) {
		_, err := f.codes.Validate(ctx, u.Username, "222222")
		require.NoError(t, err)
		_, err = f.codes.Validate(ctx, u.Username, "222222")
		require.NoError(t, err)
	})

	t.Run("consume is idempotent", func(t *testing.T) {
		rc, err := f.codes.Validate(ctx, u.Username, "222222")
		require.NoError(t, err)

		require.NoError(t, f.codes.Consume(ctx, rc.ID))
		require.NoError(t, f.codes.Consume(ctx, rc.ID))

		_, err = f.codes.Validate(ctx, u.Username, "222222")
		require.ErrorIs(t, err, service.ErrCodeNotFound)
	})
}

func TestResetCodeService_ConcurrentReplace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := seedUser(t, f, "a@x.com")

	codes := []string{"100001", "100002", "100003", "100004", "100005"}

	var wg sync.WaitGroup
	for _, code := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.codes.InvalidateAndStore(ctx, u.Username, code, u.ID, u.Username); err != nil {
				t.Errorf("store %s: %v", code, err)
			}
		}()
	}
	wg.Wait()

	valid := 0
	for _, code := range codes {
		if _, err := f.codes.Validate(ctx, u.Username, code); err == nil {
			valid++
		}
	}
	require.Equal(t, 1, valid)
}
