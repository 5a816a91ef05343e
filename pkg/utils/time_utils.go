package utils

import "time"

// Billing runs on Indian time (IST, +05:30).
var istLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Kolkata"); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+1800)
}()

// All DB timestamps are stored as unix seconds.
func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSecondsIST converts an epoch value in seconds to IST.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSecondsIST(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(istLoc)
}

// AddCalendarMonths extends a unix-seconds timestamp by whole calendar months
// in IST, matching how renewal windows are granted.
func AddCalendarMonths(t int64, months int) int64 {
	return time.Unix(t, 0).In(istLoc).AddDate(0, months, 0).Unix()
}
