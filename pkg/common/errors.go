package common

import "errors"

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrIllegalMove     = errors.New("illegal move")
)
