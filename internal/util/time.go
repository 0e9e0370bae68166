package util

import "time"

// TimestampLayout renders dates as 2018-Jul-22.
const TimestampLayout = "2006-Jan-02"

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

func SystemClock() Clock {
	return time.Now
}

func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
