// Package handlers exposes the reservation store over HTTP. All view data is
// re-derived from the store on every request; nothing is cached here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agendero/agenda-api/internal/reservations"
	"github.com/agendero/agenda-api/internal/schedule"
	"github.com/agendero/agenda-api/pkg/logging"
)

// ReservationsHandler serves the booking endpoints.
type ReservationsHandler struct {
	store  *reservations.Store
	logger *logging.Logger
}

// NewReservationsHandler creates the HTTP handler for reservations.
func NewReservationsHandler(store *reservations.Store, logger *logging.Logger) *ReservationsHandler {
	if store == nil {
		panic("handlers: reservation store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReservationsHandler{store: store, logger: logger}
}

// Routes returns a chi router with the reservation CRUD routes.
func (h *ReservationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/months", h.Months)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Remove)
	return r
}

// List returns reservations sorted by (date, hour), optionally filtered to a
// single YYYY-MM month.
// GET /api/reservations?month=2024-06
func (h *ReservationsHandler) List(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	rs := h.store.List(r.Context(), month)
	writeJSON(w, http.StatusOK, map[string]any{"reservations": rs})
}

// Create books a new slot.
// POST /api/reservations
func (h *ReservationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cand reservations.Candidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.store.Create(r.Context(), cand)
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Update rebooks an existing reservation under the same id.
// PUT /api/reservations/{id}
func (h *ReservationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var cand reservations.Candidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.store.Update(r.Context(), id, cand)
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Remove deletes a reservation.
// DELETE /api/reservations/{id}
func (h *ReservationsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := h.store.Remove(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to remove reservation", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "reservation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Months returns the distinct months with bookings, for the list filter.
// GET /api/reservations/months
func (h *ReservationsHandler) Months(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"months": h.store.DistinctMonths(r.Context())})
}

// AvailabilityResponse describes the free slots of one date.
type AvailabilityResponse struct {
	Date    string `json:"date"`
	Weekday bool   `json:"weekday"`
	Hours   []int  `json:"hours"`
}

// Availability returns the free hours for a date. Weekends are reported as
// non-bookable with an empty hour list rather than an error.
// GET /api/availability?date=2024-06-10
func (h *ReservationsHandler) Availability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date required")
		return
	}
	if _, err := schedule.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	resp := AvailabilityResponse{Date: date, Hours: []int{}}
	if schedule.IsWeekday(date) {
		resp.Weekday = true
		resp.Hours = h.store.AvailableHours(r.Context(), date)
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeBookingError maps the store's error taxonomy onto HTTP statuses.
func (h *ReservationsHandler) writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *reservations.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "missing or invalid fields",
			"fields": verr.Fields,
		})
	case errors.Is(err, reservations.ErrInvalidDay):
		writeError(w, http.StatusUnprocessableEntity, "bookings are limited to weekdays")
	case errors.Is(err, reservations.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot already booked")
	case errors.Is(err, reservations.ErrNotFound):
		writeError(w, http.StatusNotFound, "reservation not found")
	default:
		h.logger.Error("booking operation failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
