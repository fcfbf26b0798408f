package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/store"
	"github.com/aussiebroadwan/edura/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/edura/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "edura.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	// Applying twice is a no-op.
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newUser(username string, now time.Time) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		FullName:     "Test User",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	u := newUser("alice@x.com", now)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("get by username", func(t *testing.T) {
		got, err := s.Users().GetUserByUsername(ctx, "alice@x.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, u.FullName, got.FullName)
		require.Equal(t, domain.StatusActive, got.Status)
		require.Equal(t, int64(0), got.Points)
		require.True(t, now.Equal(got.CreatedAt))
	})

	t.Run("username lookup is case sensitive", func(t *testing.T) {
		_, err := s.Users().GetUserByUsername(ctx, "Alice@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, newUser("alice@x.com", now))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("update password hash", func(t *testing.T) {
		later := now.Add(time.Minute)
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash", later))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)
		require.True(t, later.Equal(got.UpdatedAt))
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, s.Users().UpdateStatus(ctx, u.ID, domain.StatusLocked, now))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.IsLocked())
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "h", now), store.ErrNotFound)
		require.ErrorIs(t, s.Users().UpdateStatus(ctx, "missing", domain.StatusLocked, now), store.ErrNotFound)
	})
}

func TestConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Users().CreateUser(ctx, newUser("race@x.com", now))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, store.ErrAlreadyExists):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, n-1, dupes)
}

func TestResetCodes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	u := newUser("bob@x.com", now)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	code := func(hash string, at time.Time) domain.ResetCode {
		return domain.ResetCode{
			ID:        idx.New().String(),
			Email:     u.Username,
			CodeHash:  hash,
			UserID:    u.ID,
			Username:  u.Username,
			CreatedAt: at,
		}
	}

	first := code("hash-1", now)
	require.NoError(t, s.ResetCodes().CreateResetCode(ctx, first))

	t.Run("one unused code per email", func(t *testing.T) {
		err := s.ResetCodes().CreateResetCode(ctx, code("hash-2", now))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("replace inside a transaction", func(t *testing.T) {
		second := code("hash-2", now)
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.ResetCodes().DeleteUnusedResetCodes(ctx, u.Username); err != nil {
				return err
			}
			return tx.ResetCodes().CreateResetCode(ctx, second)
		})
		require.NoError(t, err)

		_, err = s.ResetCodes().GetUnusedResetCode(ctx, u.Username, "hash-1")
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.ResetCodes().GetUnusedResetCode(ctx, u.Username, "hash-2")
		require.NoError(t, err)
		require.Equal(t, second.ID, got.ID)
		require.Equal(t, u.ID, got.UserID)
		require.False(t, got.Used)
		require.True(t, now.Equal(got.CreatedAt))

		// Marking used is idempotent and hides the code from lookups.
		require.NoError(t, s.ResetCodes().MarkResetCodeUsed(ctx, second.ID))
		require.NoError(t, s.ResetCodes().MarkResetCodeUsed(ctx, second.ID))
		_, err = s.ResetCodes().GetUnusedResetCode(ctx, u.Username, "hash-2")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rolled back transaction leaves no trace", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.ResetCodes().CreateResetCode(ctx, code("hash-3", now)); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.ResetCodes().GetUnusedResetCode(ctx, u.Username, "hash-3")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("mark missing code", func(t *testing.T) {
		require.ErrorIs(t, s.ResetCodes().MarkResetCodeUsed(ctx, "missing"), store.ErrNotFound)
	})

	t.Run("delete stale codes", func(t *testing.T) {
		old := code("hash-old", now.Add(-time.Hour))
		require.NoError(t, s.ResetCodes().CreateResetCode(ctx, old))

		// The used code from above and the hour-old code both go.
		n, err := s.ResetCodes().DeleteStaleResetCodes(ctx, now.Add(-30*time.Minute))
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, int64(2))

		_, err = s.ResetCodes().GetUnusedResetCode(ctx, u.Username, "hash-old")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPing(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
