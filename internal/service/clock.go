package service

import "time"

// Clock supplies the current time. The reservation service never calls
// time.Now directly so tests can pin "now" and exercise past-date and
// expiry behavior deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock, in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
