package clock

import "time"

// Clock abstracts time so aggregation windows and timestamps can be
// pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Fixed is a Clock stuck at a single instant; test use.
type Fixed struct {
	At time.Time
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time { return f.At }
