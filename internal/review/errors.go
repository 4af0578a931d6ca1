package review

import "errors"

var (
	ErrDuplicateVote = errors.New("voter has already voted in this review episode")
	ErrSelfVote      = errors.New("contributors cannot vote on their own word")
	ErrInvalidVote   = errors.New("invalid vote")
)
