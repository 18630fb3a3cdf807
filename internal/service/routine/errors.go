package routine

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("routine not found")
	ErrLinkNotFound = errors.New("routine exercise not found")
	ErrNameRequired = errors.New("routine name is required")
	ErrInvalidDates = errors.New("end date must not be before start date")
)

// RollbackError reports a failed assignment whose compensating delete also
// failed, leaving an orphan routine header behind. Both errors are carried:
// the original insert failure and the delete failure.
type RollbackError struct {
	RoutineID   int64
	InsertErr   error
	RollbackErr error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf(
		"routine %d: exercise batch insert failed (%v) and compensating delete failed (%v), orphan header remains",
		e.RoutineID, e.InsertErr, e.RollbackErr,
	)
}

func (e *RollbackError) Unwrap() error { return e.InsertErr }
