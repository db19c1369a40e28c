package domain

import (
	"regexp"
	"strings"
	"time"
)

// emailPattern is the minimal shape check applied to registration and login
// input: a local part, an @, and a domain containing at least one dot, with
// no whitespace anywhere.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account (an identity) in the service.
// The numeric ID is assigned by the store on creation.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
}

// NormalizeEmail trims surrounding whitespace and lowercases the address,
// then validates it against the minimal email shape.
// Returns the normalized address or ErrInvalidEmail.
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(normalized) {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NewUser creates a new User with the given display name, email and password
// hash. The email is normalized (trimmed, lowercased) and validated; the name
// is trimmed. Returns an error if validation fails.
//
// NOTE: The caller is responsible for hashing the password before calling
// this function; plaintext passwords never appear on the User struct.
func NewUser(name, email, hashedPassword string) (*User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if hashedPassword == "" {
		return nil, ErrEmptyPassword
	}

	return &User{
		Email:          normalized,
		Name:           name,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
