package cryptox

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Iteration count werkzeug used when the method string omitted one.
const legacyDefaultIterations = 260000

// comparePBKDF2 checks a werkzeug style digest:
//
//	pbkdf2:<hash>[:<iterations>]$<salt>$<hex digest>
//
// The salt is used as raw text, not decoded.
func comparePBKDF2(password, encodedHash string) error {
	method, rest, ok := strings.Cut(encodedHash, "$")
	if !ok {
		return ErrHashFormat
	}
	salt, digestHex, ok := strings.Cut(rest, "$")
	if !ok || salt == "" || digestHex == "" {
		return ErrHashFormat
	}

	args := strings.Split(method, ":")
	if args[0] != "pbkdf2" || len(args) > 3 {
		return ErrHashFormat
	}

	hashName := "sha256"
	if len(args) >= 2 {
		hashName = args[1]
	}
	iters := legacyDefaultIterations
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: iterations", ErrHashFormat)
		}
		iters = n
	}

	var newHash func() hash.Hash
	switch hashName {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	default:
		return ErrUnknownScheme
	}

	expected, err := hex.DecodeString(digestHex)
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: digest", ErrHashFormat)
	}

	computed := pbkdf2.Key([]byte(password), []byte(salt), iters, len(expected), newHash)
	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrHashMismatch
}
