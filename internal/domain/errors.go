package domain

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrSecretNotFound  = errors.New("secret not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)
