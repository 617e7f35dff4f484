// Package schedule defines the bookable slot grid: weekdays only, one-hour
// slots from OpenHour through CloseHour inclusive.
package schedule

import "time"

const (
	// OpenHour is the first bookable hour of the day.
	OpenHour = 10
	// CloseHour is the last bookable hour of the day.
	CloseHour = 18
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// IsWeekday reports whether the date falls on Monday through Friday.
// Malformed dates are not bookable and therefore not weekdays.
func IsWeekday(date string) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// ValidHour reports whether the hour lies inside the booking window.
func ValidHour(hour int) bool {
	return hour >= OpenHour && hour <= CloseHour
}

// AvailableHours returns every hour in [OpenHour, CloseHour] not present in
// occupied, in ascending order. With nothing occupied all slots come back.
func AvailableHours(occupied []int) []int {
	taken := make(map[int]struct{}, len(occupied))
	for _, h := range occupied {
		taken[h] = struct{}{}
	}
	hours := make([]int, 0, CloseHour-OpenHour+1)
	for h := OpenHour; h <= CloseHour; h++ {
		if _, ok := taken[h]; !ok {
			hours = append(hours, h)
		}
	}
	return hours
}
