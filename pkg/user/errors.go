package user

import "errors"

var (
	ErrNotFound        = errors.New("user.not_found")
	ErrUsernameTaken   = errors.New("user.username_taken")
	ErrInvalidUsername = errors.New("user.invalid_username")
	ErrStorage         = errors.New("user.storage_failed")
)
