package model

import "time"

// Clock supplies the current time. Services take one so tests can pin now.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}
