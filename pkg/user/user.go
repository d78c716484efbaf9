package user

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxUsernameLength is counted in runes after normalisation.
const MaxUsernameLength = 64

// User is a registered account.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Repository persists users.
type Repository interface {
	// Create stores u. It returns ErrUsernameTaken when the username exists.
	Create(ctx context.Context, u *User) error
	// GetByUsername returns ErrNotFound when no user has the username.
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// NormalizeUsername trims, NFKC-normalises and case-folds name so that
// visually identical usernames collide. It returns ErrInvalidUsername for
// empty, overlong or control-character names.
func NormalizeUsername(name string) (string, error) {
	name = strings.TrimSpace(norm.NFKC.String(name))
	name = cases.Fold().String(name) // Casers are stateful, so one per call

	if name == "" || utf8.RuneCountInString(name) > MaxUsernameLength {
		return "", ErrInvalidUsername
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return "", ErrInvalidUsername
		}
	}
	return name, nil
}
