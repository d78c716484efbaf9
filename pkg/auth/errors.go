package auth

import "errors"

var (
	ErrInvalidInput   = errors.New("auth.invalid_input")
	ErrUsernameTaken  = errors.New("auth.username_taken")
	ErrUserNotFound   = errors.New("auth.user_not_found")
	ErrWrongPassword  = errors.New("auth.wrong_password")
	ErrSessionFailure = errors.New("auth.session_failure")
)
