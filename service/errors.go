package service

import "errors"

var (
	// ErrPrizePoolExhausted is returned when a single draw produces more
	// winners than the prize pool can supply. The draw is rejected rather
	// than clamped so every persisted record keeps the configured prize
	// distribution.
	ErrPrizePoolExhausted = errors.New("prize pool exhausted")

	// ErrInsufficientSampleSize is returned when a requested holding span
	// exceeds the number of simulated draws in a batch.
	ErrInsufficientSampleSize = errors.New("insufficient sample size")
)
