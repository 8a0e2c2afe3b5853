package apperror

import "errors"

var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrRoundFinished   = errors.New("round is already finished")
	ErrPeerUnavailable = errors.New("peer is unavailable")
)
