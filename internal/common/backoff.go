package common

import (
	"math"
	"math/rand"
	"time"
)

const backoffJitter = 0.25

// Backoff returns the wait before the given 1-based attempt: zero for the first attempt, then
// initial*multiplier^(attempt-2) capped at maxBackoff, with ±25% jitter.
func Backoff(attempt int, initial, maxBackoff time.Duration, multiplier float64) time.Duration {
	if attempt <= 1 {
		return 0
	}

	backoff := float64(initial) * math.Pow(multiplier, float64(attempt-2))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}

	jitterRange := backoff * backoffJitter
	backoff += (rand.Float64() * 2 * jitterRange) - jitterRange //nolint:gosec

	return time.Duration(max(backoff, 0))
}
