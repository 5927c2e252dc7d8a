package nutrition

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Day truncates t to its calendar date at UTC midnight. All stored dates go
// through here so equality lookups match across drivers.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the server's current calendar date.
func Today() time.Time {
	return Day(time.Now())
}

// WeekdayIndex numbers days from Monday = 0 to Sunday = 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := Day(t)
	return day.AddDate(0, 0, -WeekdayIndex(day))
}

// SlotDate is the calendar date of a slot's day within a plan week.
func SlotDate(weekStart time.Time, dayOfWeek int) time.Time {
	return Day(weekStart).AddDate(0, 0, dayOfWeek)
}

// DayName returns the English weekday name for a Monday-based index, or ""
// when out of range.
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ""
	}
	return dayNames[dayOfWeek]
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
