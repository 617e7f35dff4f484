package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendero/agenda-api/internal/reservations"
	"github.com/agendero/agenda-api/pkg/logging"
)

func newTestRouter(t *testing.T) (chi.Router, *reservations.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	snap := reservations.NewRedisSnapshot(client, "agenda:test", logging.Default())
	store := reservations.NewStore(snap, logging.Default(), nil)

	h := NewReservationsHandler(store, logging.Default())
	r := chi.NewRouter()
	r.Mount("/api/reservations", h.Routes())
	r.Get("/api/availability", h.Availability)
	return r, store
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateReservation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/api/reservations", map[string]any{
		"first_name": "Ana",
		"last_name":  "Lopez",
		"date":       "2024-06-10",
		"hour":       11,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var res reservations.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "2024-06-10", res.Date)
}

func TestCreateConflictReturns409(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]any{"first_name": "Ana", "last_name": "Lopez", "date": "2024-06-10", "hour": 11}
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/reservations", body).Code)

	rec := postJSON(t, router, "/api/reservations", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "slot already booked")
}

func TestCreateWeekendReturns422(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/api/reservations", map[string]any{
		"first_name": "Ana",
		"last_name":  "Lopez",
		"date":       "2024-06-08", // Saturday
		"hour":       11,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "weekdays")
}

func TestCreateMissingFieldsReturns422WithFieldList(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/api/reservations", map[string]any{"date": "2024-06-10", "hour": 11})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"first_name", "last_name"}, resp.Fields)
}

func TestCreateInvalidJSONReturns400(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFilteredByMonth(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	for _, c := range []reservations.Candidate{
		{FirstName: "Ana", LastName: "Lopez", Date: "2024-06-10", Hour: 11},
		{FirstName: "Luis", LastName: "Mora", Date: "2024-07-01", Hour: 10},
	} {
		_, err := store.Create(ctx, c)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reservations?month=2024-06", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reservations []reservations.Reservation `json:"reservations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "2024-06-10", resp.Reservations[0].Date)
}

func TestUpdateConflictReturns409(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	_, err := store.Create(ctx, reservations.Candidate{FirstName: "Ana", LastName: "Lopez", Date: "2024-06-10", Hour: 11})
	require.NoError(t, err)
	other, err := store.Create(ctx, reservations.Candidate{FirstName: "Luis", LastName: "Mora", Date: "2024-06-10", Hour: 12})
	require.NoError(t, err)

	data, _ := json.Marshal(map[string]any{"first_name": "Luis", "last_name": "Mora", "date": "2024-06-10", "hour": 11})
	req := httptest.NewRequest(http.MethodPut, "/api/reservations/"+other.ID, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	list := store.List(ctx, "")
	require.Len(t, list, 2)
	assert.Equal(t, 12, list[1].Hour, "failed edit must not move the booking")
}

func TestUpdateUnknownIDReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	data, _ := json.Marshal(map[string]any{"first_name": "Ana", "last_name": "Lopez", "date": "2024-06-10", "hour": 11})
	req := httptest.NewRequest(http.MethodPut, "/api/reservations/nope", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveReservation(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	res, err := store.Create(ctx, reservations.Candidate{FirstName: "Ana", LastName: "Lopez", Date: "2024-06-10", Hour: 11})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/reservations/"+res.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/reservations/"+res.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMonthsEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	for _, c := range []reservations.Candidate{
		{FirstName: "Ana", LastName: "Lopez", Date: "2024-07-01", Hour: 10},
		{FirstName: "Luis", LastName: "Mora", Date: "2024-06-10", Hour: 15},
	} {
		_, err := store.Create(ctx, c)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reservations/months", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Months []string `json:"months"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"2024-06", "2024-07"}, resp.Months)
}

func TestAvailabilityEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	_, err := store.Create(ctx, reservations.Candidate{FirstName: "Ana", LastName: "Lopez", Date: "2024-06-10", Hour: 11})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2024-06-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Weekday)
	assert.NotContains(t, resp.Hours, 11)
	assert.Len(t, resp.Hours, 8)
}

func TestAvailabilityWeekend(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2024-06-08", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Weekday)
	assert.Empty(t, resp.Hours)
}

func TestAvailabilityBadDate(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/availability", "/api/availability?date=junk"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
