package queuectl

import (
	"math"
	"time"
)

// Backoff computes the delay inserted before a retry.
//
// The delay for attempt a is Base^a seconds, growing exponentially
// with the attempt counter. Cap, when positive, bounds the delay;
// the zero value leaves backoff uncapped, the baseline policy.
type Backoff struct {
	Base int
	Cap  time.Duration
}

// Delay returns the backoff delay after the given completed attempt
// count. A misconfigured base below 1 degrades to a constant one
// second delay rather than producing nonsense.
func (b Backoff) Delay(attempts int) time.Duration {
	base := b.Base
	if base < 1 {
		base = 1
	}
	seconds := math.Pow(float64(base), float64(attempts))
	ret := time.Duration(seconds * float64(time.Second))
	if b.Cap > 0 && ret > b.Cap {
		ret = b.Cap
	}
	return ret
}
