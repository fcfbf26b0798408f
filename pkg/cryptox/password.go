package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt

	// maxMemory bounds what a stored digest may ask us to allocate.
	maxMemory = 256 * 1024
)

var (
	ErrHashFormat    = errors.New("cryptox: invalid hash format")
	ErrHashMismatch  = errors.New("cryptox: password does not match")
	ErrUnknownScheme = errors.New("cryptox: unknown hash scheme")
)

// Hasher is a salted one-way password hash with a constant-time verifier.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// Argon2Hasher produces PHC-format Argon2id digests. Verification also
// accepts PBKDF2 digests written by the previous service so those accounts
// keep working until their next password change.
type Argon2Hasher struct {
	pepper string
}

// NewArgon2Hasher returns a hasher that mixes pepper into every digest.
func NewArgon2Hasher(pepper string) *Argon2Hasher {
	return &Argon2Hasher{pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
// Every call draws a fresh salt so two hashes of the same password differ.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}

	sum := argon2.IDKey([]byte(password+h.pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether password matches encodedHash. Malformed or unknown
// digests simply do not match.
func (h *Argon2Hasher) Verify(password, encodedHash string) bool {
	return h.compare(password, encodedHash) == nil
}

func (h *Argon2Hasher) compare(password, encodedHash string) error {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return h.compareArgon2(password, encodedHash)
	case strings.HasPrefix(encodedHash, "pbkdf2:"):
		return comparePBKDF2(password, encodedHash)
	default:
		return ErrUnknownScheme
	}
}

// compareArgon2 parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash and recomputes.
func (h *Argon2Hasher) compareArgon2(password, encodedHash string) error {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return ErrHashFormat
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrHashFormat, err)
	}
	if mem == 0 || mem > maxMemory || iters == 0 || par == 0 {
		return fmt.Errorf("%w: parameters out of range", ErrHashFormat)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrHashFormat, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: hash", ErrHashFormat)
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - bounded by the decoded digest
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrHashMismatch
}
