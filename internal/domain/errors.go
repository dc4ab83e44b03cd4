package domain

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrNotReady           = errors.New("image or theme missing")
	ErrGenerationInFlight = errors.New("generation already in flight")
	ErrResultNotFound     = errors.New("result not found")
)
