package reservations

import (
	"errors"
	"strings"
)

var (
	// ErrSlotTaken signals that another reservation already occupies the
	// requested (date, hour) slot.
	ErrSlotTaken = errors.New("reservations: slot already booked")
	// ErrInvalidDay signals a weekend or unparseable date.
	ErrInvalidDay = errors.New("reservations: bookings are limited to weekdays")
	// ErrNotFound signals an update or lookup against an unknown id.
	ErrNotFound = errors.New("reservations: reservation not found")
)

// ValidationError reports which required fields were missing or out of range.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "reservations: invalid fields: " + strings.Join(e.Fields, ", ")
}
