package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// MinCookieLength is the smallest number of random bytes a session cookie is
// generated from.
const MinCookieLength = 64

// GenerateCookie returns length bytes from crypto/rand encoded as standard base64.
// Lengths below MinCookieLength are raised to MinCookieLength.
func GenerateCookie(length int) (string, error) {
	if length < MinCookieLength {
		length = MinCookieLength
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// IDFromCookie derives the storage key for a cookie: base64(blake2b-256(decoded cookie)).
// It fails with ErrDecode only when the cookie is not valid base64.
func IDFromCookie(cookie string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cookie)
	if err != nil {
		return "", errors.Join(ErrDecode, err)
	}
	sum := blake2b.Sum256(raw)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}
