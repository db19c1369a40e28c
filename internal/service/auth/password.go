package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// pbkdf2Prefix marks password hashes produced by the legacy pbkdf2-sha256
// scheme ("$pbkdf2-sha256$rounds$salt$checksum", passlib modular crypt
// format). New hashes are always bcrypt; legacy hashes remain verifiable
// without rehashing.
const pbkdf2Prefix = "$pbkdf2-sha256$"

// pbkdf2KeyLen is the checksum length of legacy pbkdf2-sha256 hashes.
const pbkdf2KeyLen = 32

// PasswordHasher defines the interface for one-way password hashing and
// verification.
type PasswordHasher interface {
	// Hash derives an opaque hash of the plaintext password.
	Hash(password string) (string, error)

	// Verify reports whether the plaintext password matches the stored
	// hash. It never fails on malformed stored hashes; it returns false.
	Verify(password, encodedHash string) bool
}

// BcryptHasher implements PasswordHasher using bcrypt for new hashes while
// also accepting legacy pbkdf2-sha256 hashes during verification.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new BcryptHasher. A cost of zero selects
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Ensure BcryptHasher implements PasswordHasher interface
var _ PasswordHasher = (*BcryptHasher)(nil)

// Hash implements PasswordHasher.Hash using bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify implements PasswordHasher.Verify. It dispatches on the stored hash
// format: legacy pbkdf2-sha256 hashes are checked with PBKDF2, everything
// else is treated as bcrypt. Malformed hashes simply verify as false.
func (h *BcryptHasher) Verify(password, encodedHash string) bool {
	if strings.HasPrefix(encodedHash, pbkdf2Prefix) {
		return verifyPBKDF2(password, encodedHash)
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// verifyPBKDF2 checks a password against a passlib-style pbkdf2-sha256 hash:
// "$pbkdf2-sha256$<rounds>$<salt>$<checksum>" with adapted base64 encoding
// ('+' replaced by '.', padding stripped).
func verifyPBKDF2(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[1] != "pbkdf2-sha256" {
		return false
	}

	rounds, err := strconv.Atoi(parts[2])
	if err != nil || rounds <= 0 {
		return false
	}

	salt, err := decodeAdaptedBase64(parts[3])
	if err != nil {
		return false
	}

	expected, err := decodeAdaptedBase64(parts[4])
	if err != nil || len(expected) == 0 {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, rounds, pbkdf2KeyLen, sha256.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

// decodeAdaptedBase64 decodes passlib's adapted base64 alphabet.
func decodeAdaptedBase64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}
