package users

import "errors"

var (
	ErrUserNotFound  = errors.New("users: user not found")
	ErrUsernameTaken = errors.New("users: username already taken")
	ErrEmailTaken    = errors.New("users: email already registered")
	ErrInvalidUser   = errors.New("users: username and email are required")
)
