package domain

import "time"

// CNLocation is UTC+8. All human-readable timestamps in the data files
// use it, matching where the reviewed content lives.
var CNLocation = time.FixedZone("CST", 8*60*60)

// StampLayout is the timestamp format used throughout the data files.
const StampLayout = "2006-01-02 15:04"

// Stamp formats t in the data-file timestamp format.
func Stamp(t time.Time) string {
	return t.In(CNLocation).Format(StampLayout)
}

// NowStamp returns the current time in the data-file timestamp format.
func NowStamp() string {
	return Stamp(time.Now())
}
