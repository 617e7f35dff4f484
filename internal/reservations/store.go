package reservations

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/agendero/agenda-api/internal/schedule"
	"github.com/agendero/agenda-api/pkg/logging"
)

// Store is the single source of truth for bookings. Every mutation is
// persisted before it is committed to memory, so a failed write leaves both
// sides exactly as they were.
type Store struct {
	mu      sync.Mutex
	snap    Snapshotter
	logger  *logging.Logger
	metrics *Metrics
	items   []Reservation
}

// NewStore creates a store backed by the given snapshotter. Metrics may be
// nil.
func NewStore(snap Snapshotter, logger *logging.Logger, metrics *Metrics) *Store {
	if snap == nil {
		panic("reservations: snapshotter required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{snap: snap, logger: logger, metrics: metrics}
}

// Load restores the reservation set from the snapshot and returns how many
// records survived. Corruption is never fatal: the store starts empty and
// logs a warning instead.
func (s *Store) Load(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.snap.Load(ctx)
	if err != nil {
		s.logger.Warn("snapshot unreadable, starting with empty reservation set", "error", err)
		s.items = nil
		return 0
	}

	// Enforce slot uniqueness across restored records; first one wins.
	seen := make(map[string]struct{}, len(rs))
	kept := rs[:0]
	for _, r := range rs {
		key := slotKey(r.Date, r.Hour)
		if _, dup := seen[key]; dup {
			s.logger.Warn("discarding duplicate slot from snapshot", "id", r.ID, "date", r.Date, "hour", r.Hour)
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, r)
	}
	sortSet(kept)
	s.items = kept
	return len(kept)
}

// Create validates the candidate, assigns a fresh id, persists and inserts.
func (s *Store) Create(ctx context.Context, cand Candidate) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := cand.validate(); err != nil {
		return Reservation{}, err
	}
	if s.slotTaken(cand.Date, cand.Hour, "") {
		s.metrics.ObserveConflict()
		return Reservation{}, ErrSlotTaken
	}

	res := Reservation{
		ID:        uuid.NewString(),
		FirstName: strings.TrimSpace(cand.FirstName),
		LastName:  strings.TrimSpace(cand.LastName),
		Date:      cand.Date,
		Hour:      cand.Hour,
	}
	next := append(s.copySet(), res)
	sortSet(next)
	if err := s.snap.Save(ctx, next); err != nil {
		return Reservation{}, fmt.Errorf("reservations: create: %w", err)
	}
	s.items = next
	s.metrics.ObserveCreated()
	s.logger.Info("reservation created", "id", res.ID, "date", res.Date, "hour", res.Hour)
	return res, nil
}

// Update rebooks the reservation with the given id onto the candidate's
// slot. The new slot is checked against every other reservation before the
// old one is touched, so a conflicting edit cannot lose the original booking.
func (s *Store) Update(ctx context.Context, id string, cand Candidate) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Reservation{}, ErrNotFound
	}
	if err := cand.validate(); err != nil {
		return Reservation{}, err
	}
	if s.slotTaken(cand.Date, cand.Hour, id) {
		s.metrics.ObserveConflict()
		return Reservation{}, ErrSlotTaken
	}

	res := Reservation{
		ID:        id,
		FirstName: strings.TrimSpace(cand.FirstName),
		LastName:  strings.TrimSpace(cand.LastName),
		Date:      cand.Date,
		Hour:      cand.Hour,
	}
	next := s.copySet()
	next[idx] = res
	sortSet(next)
	if err := s.snap.Save(ctx, next); err != nil {
		return Reservation{}, fmt.Errorf("reservations: update: %w", err)
	}
	s.items = next
	s.logger.Info("reservation updated", "id", id, "date", res.Date, "hour", res.Hour)
	return res, nil
}

// Remove deletes the reservation with the given id, reporting whether a
// deletion happened. An unknown id is not an error.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	next := s.copySet()
	next = append(next[:idx], next[idx+1:]...)
	if err := s.snap.Save(ctx, next); err != nil {
		return false, fmt.Errorf("reservations: remove: %w", err)
	}
	s.items = next
	s.metrics.ObserveRemoved()
	s.logger.Info("reservation removed", "id", id)
	return true, nil
}

// List returns reservations sorted by (date, hour). A non-empty month
// ("YYYY-MM") restricts the result to dates in that month.
func (s *Store) List(ctx context.Context, month string) []Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Reservation, 0, len(s.items))
	for _, r := range s.items {
		if month != "" && !strings.HasPrefix(r.Date, month+"-") {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DistinctMonths returns the unique YYYY-MM values present, ascending.
func (s *Store) DistinctMonths(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, r := range s.items {
		if len(r.Date) < 7 {
			continue
		}
		m := r.Date[:7]
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// AvailableHours returns the free hours of the booking window for the date.
func (s *Store) AvailableHours(ctx context.Context, date string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var occupied []int
	for _, r := range s.items {
		if r.Date == date {
			occupied = append(occupied, r.Hour)
		}
	}
	return schedule.AvailableHours(occupied)
}

func (s *Store) slotTaken(date string, hour int, excludeID string) bool {
	for _, r := range s.items {
		if r.Date == date && r.Hour == hour && r.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) copySet() []Reservation {
	next := make([]Reservation, len(s.items))
	copy(next, s.items)
	return next
}

func slotKey(date string, hour int) string {
	return fmt.Sprintf("%s@%d", date, hour)
}
