package domain

import "errors"

// User errors
var (
	ErrUserExists   = errors.New("user with this username or email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Contact errors
var (
	ErrContactNotFound = errors.New("contact not found")
)
