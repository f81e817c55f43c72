package ratelimit

import "time"

// SetClock replaces the limiter's clock.
func (l *Limiter) SetClock(now func() time.Time) { l.now = now }
