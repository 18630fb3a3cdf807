package progress

import "errors"

var (
	ErrNotFound      = errors.New("progress record not found")
	ErrInvalidPain   = errors.New("pain level must be between 1 and 10")
	ErrInvalidEffort = errors.New("difficulty must be between 1 and 5")
)
