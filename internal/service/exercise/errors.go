package exercise

import "errors"

var (
	ErrNotFound        = errors.New("exercise not found")
	ErrInvalidCategory = errors.New("category is not in the allowed set")
	ErrNameRequired    = errors.New("exercise name is required")
)
