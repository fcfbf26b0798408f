package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgon2Hasher_Hash(t *testing.T) {
	h := NewArgon2Hasher("test-pepper")

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "m=19456,t=2,p=1", parts[3])
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")

			if tt.password != "" {
				require.NotContains(t, hash, tt.password, "hash must not embed the plaintext")
			}
			require.True(t, h.Verify(tt.password, hash))
		})
	}
}

func TestArgon2Hasher_HashIsSalted(t *testing.T) {
	h := NewArgon2Hasher("")

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	require.NotEqual(t, first, second, "two hashes of one password should differ")
	require.True(t, h.Verify("same-password", first))
	require.True(t, h.Verify("same-password", second))
}

func TestArgon2Hasher_Verify(t *testing.T) {
	h := NewArgon2Hasher("pepper")
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"matching password", "correct horse", hash, true},
		{"wrong password", "battery staple", hash, false},
		{"case differs", "Correct horse", hash, false},
		{"trailing space", "correct horse ", hash, false},
		{"empty hash", "correct horse", "", false},
		{"garbage hash", "correct horse", "not-a-hash", false},
		{"truncated phc", "correct horse", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA", false},
		{"zero memory", "correct horse", "$argon2id$v=19$m=0,t=2,p=1$c2FsdHNhbHQ$aGFzaA", false},
		{"zero iterations", "correct horse", "$argon2id$v=19$m=19456,t=0,p=1$c2FsdHNhbHQ$aGFzaA", false},
		{"zero parallelism", "correct horse", "$argon2id$v=19$m=19456,t=2,p=0$c2FsdHNhbHQ$aGFzaA", false},
		{"huge memory", "correct horse", "$argon2id$v=19$m=99999999,t=2,p=1$c2FsdHNhbHQ$aGFzaA", false},
		{"wrong version", "correct horse", strings.Replace(hash, "v=19", "v=16", 1), false},
		{"bcrypt digest", "correct horse", "$2b$12$abcdefghijklmnopqrstuv", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, h.Verify(tt.password, tt.hash))
		})
	}
}

func TestArgon2Hasher_PepperMismatch(t *testing.T) {
	hash, err := NewArgon2Hasher("pepper-one").Hash("password")
	require.NoError(t, err)

	require.False(t, NewArgon2Hasher("pepper-two").Verify("password", hash))
	require.True(t, NewArgon2Hasher("pepper-one").Verify("password", hash))
}

func TestArgon2Hasher_VerifyLegacyPBKDF2(t *testing.T) {
	h := NewArgon2Hasher("pepper is ignored for legacy digests")

	const (
		sha256Digest = "pbkdf2:sha256:1000$NaClSalt$2ebfe161936c99bcef14f7c412697fc62569348f4c4ca5a27ef0a252231d07e0"
		sha512Digest = "pbkdf2:sha512:1000$NaClSalt$d0bdfd2be7a47ae6dfb38f09555e223f06d91012cd759619099c4e85925c2df53f1de56f68dda4c5cb73c7544ad19495bc06fea65e9633f0c63253c74fb7321c"
	)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"sha256 match", "secret123", sha256Digest, true},
		{"sha256 mismatch", "secret124", sha256Digest, false},
		{"sha512 match", "secret123", sha512Digest, true},
		{"wrong iterations", "secret123", strings.Replace(sha256Digest, ":1000$", ":1001$", 1), false},
		{"bad iterations", "secret123", strings.Replace(sha256Digest, ":1000$", ":abc$", 1), false},
		{"unknown hash", "secret123", strings.Replace(sha256Digest, "sha256", "md5", 1), false},
		{"missing salt", "secret123", "pbkdf2:sha256:1000$2ebfe161", false},
		{"non-hex digest", "secret123", "pbkdf2:sha256:1000$NaClSalt$zzzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, h.Verify(tt.password, tt.hash))
		})
	}
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "existing pepper should be reused")
}

func TestLoadOrCreatePepper_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("  from-file\n"), 0o600))

	pepper, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", pepper)
}
