package service_test

import (
	"context"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/edura/pkg/cryptox"
	"github.com/aussiebroadwan/edura/pkg/mailx"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key-0123456789abcdef")

// clock is a settable time source shared by the services under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// captureMailer records every message and optionally fails.
type captureMailer struct {
	mu   sync.Mutex
	msgs []mailx.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mailx.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *captureMailer) Sent() []mailx.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailx.Message(nil), m.msgs...)
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// lastCode pulls the reset code out of the most recent email.
func (m *captureMailer) lastCode(t *testing.T) string {
	t.Helper()
	msgs := m.Sent()
	require.NotEmpty(t, msgs, "no email sent")
	code := codePattern.FindString(msgs[len(msgs)-1].Body)
	require.NotEmpty(t, code, "no code in email body")
	return code
}

type fixture struct {
	store  *sqlite.Store
	clock  *clock
	mailer *captureMailer
	tokens *service.TokenService
	codes  *service.ResetCodeService
	auth   *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clk := newClock()
	tokens, err := service.NewTokenService(service.TokenConfig{Key: testKey, TTL: 2 * time.Hour}, clk.Now)
	require.NoError(t, err)

	mailer := &captureMailer{}
	codes := &service.ResetCodeService{Store: st, Now: clk.Now}

	return &fixture{
		store:  st,
		clock:  clk,
		mailer: mailer,
		tokens: tokens,
		codes:  codes,
		auth: &service.AuthService{
			Store:  st,
			Hasher: cryptox.NewArgon2Hasher("test-pepper"),
			Tokens: tokens,
			Codes:  codes,
			Mailer: mailer,
			Now:    clk.Now,
		},
	}
}
