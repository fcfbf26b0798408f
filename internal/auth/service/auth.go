package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/store"
	"github.com/aussiebroadwan/edura/pkg/cryptox"
	"github.com/aussiebroadwan/edura/pkg/idx"
	"github.com/aussiebroadwan/edura/pkg/mailx"
	"github.com/aussiebroadwan/edura/pkg/slogx"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountLocked        = errors.New("account locked")
	ErrMissingField         = errors.New("missing required field")
	ErrBlankPassword        = errors.New("new password is blank")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrCodeInvalidOrExpired = errors.New("reset code invalid or expired")
	ErrAccountNotFound      = errors.New("account not found")
	ErrTransport            = errors.New("email delivery failed")
)

// AuthService runs the register, login, forgot password and reset password
// workflows.
type AuthService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	Tokens *TokenService
	Codes  *ResetCodeService
	Mailer mailx.Sender
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// LoginResult is a signed token and the account it was issued for.
type LoginResult struct {
	Token string
	User  domain.User
}

// Register creates an active account with the user role. Username and full
// name are trimmed, the password is taken as given.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate request shape
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	// 2. Reject known usernames before paying for a hash
	_, err := s.Store.Users().GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return domain.User{}, ErrDuplicateUsername
	case !errors.Is(err, store.ErrNotFound):
		return domain.User{}, err
	}

	// 3. Hash and insert. The unique index settles concurrent registrations.
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     in.Username,
		FullName:     in.FullName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		Points:       0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateUsername
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login verifies credentials and issues a token with the default TTL. An
// unknown username and a wrong password both yield ErrInvalidCredentials.
// A locked account yields ErrAccountLocked.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if u.IsLocked() {
		l.Info("login refused for locked account", slog.String("user_id", u.ID))
		return LoginResult{}, ErrAccountLocked
	}

	if !s.Hasher.Verify(password, u.PasswordHash) {
		l.Info("login failed", slog.String("user_id", u.ID))
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID, u.Username, s.Tokens.DefaultTTL())
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{Token: token, User: u}, nil
}

// ForgotPassword emails a fresh reset code when the address belongs to an
// account. Unknown addresses return nil as well, so callers cannot tell the
// two apart.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	// 1. Normalise and check format
	email = normalizeEmail(email)
	if email == "" {
		return ErrMissingField
	}
	if err := validateEmail(email); err != nil {
		return ErrInvalidEmail
	}

	// 2. Resolve the account. Absence is not reported.
	u, err := s.Store.Users().GetUserByUsername(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("reset requested for unknown address", slogx.Email("email", email))
			return nil
		}
		return err
	}

	// 3. Replace any outstanding code
	code, err := s.Codes.Generate()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if _, err := s.Codes.InvalidateAndStore(ctx, u.Username, code, u.ID, u.Username); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	// 4. Deliver
	if err := s.Mailer.Send(ctx, resetCodeMessage(u.Username, code)); err != nil {
		l.Error("failed to send reset code", slogx.Email("email", u.Username), slogx.Err(err))
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	l.Info("reset code sent", slog.String("user_id", u.ID))
	return nil
}

// ResetPassword sets a new password after checking the emailed code. The
// code is consumed on success.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	l := slogx.FromContext(ctx)

	// 1. All fields present, new password not blank
	if in.Email == "" || in.Code == "" || in.NewPassword == "" {
		return ErrMissingField
	}
	newPassword := strings.TrimSpace(in.NewPassword)
	if newPassword == "" {
		return ErrBlankPassword
	}

	email := normalizeEmail(in.Email)
	code := strings.TrimSpace(in.Code)
	if err := validateEmail(email); err != nil {
		return ErrInvalidEmail
	}

	// 2. Code must be unused and inside its TTL
	rc, err := s.Codes.Validate(ctx, email, code)
	switch {
	case errors.Is(err, ErrCodeNotFound):
		return ErrCodeInvalidOrExpired
	case errors.Is(err, ErrCodeExpired):
		return fmt.Errorf("%w: %w", ErrCodeInvalidOrExpired, ErrCodeExpired)
	case err != nil:
		return err
	}

	// 3. The owning account must still carry this address
	u, err := s.Store.Users().GetUserByID(ctx, rc.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if u.Username != email {
		return ErrAccountNotFound
	}

	// 4. Update the hash and consume the code together
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, u.ID, hash, s.now()); err != nil {
			return err
		}
		return tx.ResetCodes().MarkResetCodeUsed(ctx, rc.ID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	l.Info("password reset", slog.String("user_id", u.ID))
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func resetCodeMessage(to, code string) mailx.Message {
	minutes := int(domain.ResetCodeTTL / time.Minute)
	return mailx.Message{
		To:      to,
		Subject: "Your Edura password reset code",
		Body: fmt.Sprintf("Your verification code is %s.\n\n"+
			"It expires in %d minutes. If you did not ask to reset your password, ignore this email.\n",
			code, minutes),
	}
}
