package services

import "errors"

var (
	// ErrUserNotFound and ErrInvalidCredential are kept separate so logs can
	// tell the failure modes apart. Handlers must collapse them into one
	// client-facing message.
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credential")

	ErrDuplicateUsername = errors.New("username already taken")
	ErrFileNotFound      = errors.New("file not found")
)
