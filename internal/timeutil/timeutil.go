package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// TimeLayout defines the canonical kickoff time format (HH:MM).
const TimeLayout = "15:04"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateTime combines a date and time string into a local wall-clock time.
func ParseDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.Local)
}

// Timestamp derives epoch seconds from a date and time string.
// Malformed input yields 0, so unparseable matches sort first.
func Timestamp(date, clock string) int64 {
	t, err := ParseDateTime(date, clock)
	if err != nil {
		return 0
	}
	return t.Unix()
}
