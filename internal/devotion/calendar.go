package devotion

import "time"

// ISO 8601 weekday numbers. The week starts on Monday.
const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

// WeekdayLetters are the short labels of the weekly tracker, indexed by weekday-1.
var WeekdayLetters = [7]string{"M", "T", "W", "T", "F", "S", "S"}

const dateKeyLayout = "2006-01-02"

// DateKey returns the "YYYY-MM-DD" key of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey parses a key produced by DateKey in the given location.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, loc)
}

// Weekday returns the ISO weekday of t: 1 = Monday ... 7 = Sunday.
func Weekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// Week returns the ISO 8601 year and week number of t.
func Week(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// FormatLong renders t like "Saturday, August 9, 2025".
func FormatLong(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstOfNext.AddDate(0, 0, -1).Day()
}
