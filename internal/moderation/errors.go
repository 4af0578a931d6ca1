package moderation

import (
	"errors"
	"fmt"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/review"
)

var (
	ErrNotFound           = errors.New("word not found")
	ErrVersionConflict    = errors.New("word was modified concurrently")
	ErrUnauthorizedAction = errors.New("actor is not allowed to perform this action")
	ErrIneligibleVoter    = errors.New("actor is not eligible to vote")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("word already exists")
	ErrReviewClosed       = errors.New("word is not under review")
	ErrRecordNotFound     = errors.New("report or correction not found")
	ErrAlreadyResolved    = errors.New("report or correction already resolved")
	ErrPersistence        = errors.New("persistence unavailable")

	ErrDuplicateVote = review.ErrDuplicateVote
	ErrSelfVote      = review.ErrSelfVote
)

// PersistenceError wraps a failure of an external collaborator. It is
// transient; the service never retries it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPersistence) hold for every PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
