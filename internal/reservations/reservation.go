// Package reservations owns the authoritative reservation set: validation,
// slot-conflict detection, and synchronization with the durable snapshot.
package reservations

import (
	"sort"
	"strings"

	"github.com/agendero/agenda-api/internal/schedule"
)

// Reservation is one booked slot.
type Reservation struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
}

// Candidate is the caller-supplied input for Create and Update.
type Candidate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
}

// validate enforces the field-level rules shared by Create and Update:
// required fields present, date parseable and on a weekday, hour inside the
// booking window.
func (c Candidate) validate() error {
	var missing []string
	if isBlank(c.FirstName) {
		missing = append(missing, "first_name")
	}
	if isBlank(c.LastName) {
		missing = append(missing, "last_name")
	}
	if isBlank(c.Date) {
		missing = append(missing, "date")
	}
	if !schedule.ValidHour(c.Hour) {
		missing = append(missing, "hour")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	if !schedule.IsWeekday(c.Date) {
		return ErrInvalidDay
	}
	return nil
}

// valid reports whether a reservation restored from the snapshot is usable.
// Restored records are held to the same rules as new bookings.
func (r Reservation) valid() bool {
	if isBlank(r.ID) || isBlank(r.FirstName) || isBlank(r.LastName) {
		return false
	}
	return schedule.IsWeekday(r.Date) && schedule.ValidHour(r.Hour)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// sortSet orders reservations canonically by (date, hour) ascending.
func sortSet(rs []Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Date != rs[j].Date {
			return rs[i].Date < rs[j].Date
		}
		return rs[i].Hour < rs[j].Hour
	})
}
