package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrBadAmount    = errors.New("amount is not numeric")
	ErrPushDisabled = errors.New("push channel disabled")
)
