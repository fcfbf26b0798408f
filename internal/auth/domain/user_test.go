package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestResetCodeExpiredAt(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	code := domain.ResetCode{CreatedAt: created}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"fresh", 0, false},
		{"599 seconds", 599 * time.Second, false},
		{"exactly 600 seconds", 600 * time.Second, false},
		{"601 seconds", 601 * time.Second, true},
		{"a day", 24 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, code.ExpiredAt(created.Add(tt.elapsed)))
		})
	}
}

func TestUserStatus(t *testing.T) {
	require.True(t, domain.User{Status: domain.StatusLocked}.IsLocked())
	require.False(t, domain.User{Status: domain.StatusActive}.IsLocked())

	require.True(t, domain.ValidStatus("active"))
	require.True(t, domain.ValidStatus("locked"))
	require.False(t, domain.ValidStatus("banned"))
}
