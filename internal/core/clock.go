package core

import "time"

// Clock supplies the current time to aggregation so that the
// current-month and current-year totals are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
