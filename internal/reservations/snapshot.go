package reservations

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/agendero/agenda-api/pkg/logging"
)

// Snapshotter persists and restores the full reservation set. The store is
// the only writer; nothing else touches the backing key.
type Snapshotter interface {
	Save(ctx context.Context, rs []Reservation) error
	Load(ctx context.Context) ([]Reservation, error)
}

// record is the wire form of a reservation. Field names follow the legacy
// booking widget, and hora travels as a string.
type record struct {
	ID        string    `json:"id"`
	FirstName string    `json:"nombre"`
	LastName  string    `json:"apellido"`
	Date      string    `json:"fecha"`
	Hour      hourValue `json:"hora"`
}

// hourValue tolerates both "11" and 11 in stored snapshots.
type hourValue int

func (h hourValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(h)))
}

func (h *hourValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("reservations: hora %q is not a number", s)
		}
		*h = hourValue(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("reservations: decode hora: %w", err)
	}
	*h = hourValue(n)
	return nil
}

// RedisSnapshot keeps the reservation set as a JSON array under one key.
type RedisSnapshot struct {
	redis  *redis.Client
	key    string
	logger *logging.Logger
}

func NewRedisSnapshot(client *redis.Client, key string, logger *logging.Logger) *RedisSnapshot {
	if client == nil {
		panic("reservations: redis client required")
	}
	if key == "" {
		key = "agenda:reservations"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisSnapshot{redis: client, key: key, logger: logger}
}

// Save overwrites the snapshot with the given set.
func (s *RedisSnapshot) Save(ctx context.Context, rs []Reservation) error {
	records := make([]record, 0, len(rs))
	for _, r := range rs {
		records = append(records, record{
			ID:        r.ID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Date:      r.Date,
			Hour:      hourValue(r.Hour),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("reservations: marshal snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("reservations: persist snapshot: %w", err)
	}
	return nil
}

// Load restores the reservation set. A missing key yields an empty set.
// Records are decoded and validated one by one so a single bad entry cannot
// poison the rest; whole-payload corruption (non-array data) is an error the
// store downgrades to an empty set.
func (s *RedisSnapshot) Load(ctx context.Context) ([]Reservation, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("reservations: read snapshot: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("reservations: snapshot is not an array: %w", err)
	}

	rs := make([]Reservation, 0, len(raw))
	for _, item := range raw {
		var rec record
		if err := json.Unmarshal(item, &rec); err != nil {
			s.logger.Warn("discarding undecodable reservation record", "error", err)
			continue
		}
		r := Reservation{
			ID:        rec.ID,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Date:      rec.Date,
			Hour:      int(rec.Hour),
		}
		if !r.valid() {
			s.logger.Warn("discarding invalid reservation record", "id", rec.ID, "date", rec.Date)
			continue
		}
		rs = append(rs, r)
	}
	return rs, nil
}
