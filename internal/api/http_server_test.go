package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"slotbook/internal/config"
	"slotbook/internal/database"
	"slotbook/internal/events"
	"slotbook/internal/models"
	"slotbook/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	server *httptest.Server
	db     *database.DB
	bus    *events.EventBus
}

func newTestAPI(t *testing.T, rl config.APIRateLimitConfig) *testAPI {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "api.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewEventBus()
	srv := NewHTTPServer(
		config.APIConfig{RateLimit: rl},
		service.NewEventService(db, bus, nil),
		service.NewBookingService(db, bus, nil, nil),
		service.NewAdmission(db, bus, nil),
		nil,
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testAPI{server: ts, db: db, bus: bus}
}

func (a *testAPI) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(a.server.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testAPI) createEvent(t *testing.T) models.Event {
	t.Helper()
	resp := a.post(t, "/events", map[string]string{"title": "Workshop", "description": "Go", "date": "2026-11-02"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var ev models.Event
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ev))
	return ev
}

func bookingBody(eventID int64, start, end string) map[string]any {
	return map[string]any{
		"event_id":   eventID,
		"name":       "Ada",
		"email":      "ada@example.com",
		"start_time": start,
		"end_time":   end,
	}
}

func TestHTTP_EventsRoundTrip(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{})
	ev := api.createEvent(t)
	assert.NotZero(t, ev.ID)
	assert.Equal(t, "2026-11-02", ev.DateString())

	resp, err := http.Get(api.server.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.Event
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Workshop", list[0].Title)
}

func TestHTTP_CreateEventRejectsBadDate(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{})
	resp := api.post(t, "/events", map[string]string{"title": "Workshop", "date": "02.11.2026"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_CreateBookingStatuses(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{})
	ev := api.createEvent(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"accepted", bookingBody(ev.ID, "10:00", "11:00"), http.StatusCreated},
		{"adjacent", bookingBody(ev.ID, "11:00", "12:00"), http.StatusCreated},
		{"overlap", bookingBody(ev.ID, "10:30", "11:30"), http.StatusConflict},
		{"reversed", bookingBody(ev.ID, "15:00", "14:00"), http.StatusBadRequest},
		{"unknown event", bookingBody(ev.ID+100, "10:00", "11:00"), http.StatusNotFound},
		{"bad email", map[string]any{"event_id": ev.ID, "name": "Ada", "email": "nope", "start_time": "13:00", "end_time": "14:00"}, http.StatusBadRequest},
		{"unknown field", map[string]any{"event_id": ev.ID, "surname": "x"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.post(t, "/bookings", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	list, err := api.db.ListBookingsForEvent(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestHTTP_ListBookings(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{})
	ev := api.createEvent(t)
	api.post(t, "/bookings", bookingBody(ev.ID, "09:00", "09:30"))

	resp, err := http.Get(api.server.URL + "/bookings-by-event-id/" + strconv.FormatInt(ev.ID, 10))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "09:00", list[0].StartTime.String())

	bad, err := http.Get(api.server.URL + "/bookings-by-event-id/abc")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestHTTP_AdmissionOutcomes(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{})
	ev := api.createEvent(t)

	var accepted int
	api.bus.Subscribe(events.BookingAccepted, func(*events.Message) error {
		accepted++
		return nil
	})

	resp := api.post(t, "/api/v1/admissions", bookingBody(ev.ID, "10:00", "11:00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out service.Outcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, service.StateAccepted, out.State)
	require.NotNil(t, out.Booking)

	resp = api.post(t, "/api/v1/admissions", bookingBody(ev.ID, "10:00", "11:00"))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	out = service.Outcome{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, service.StateRejected, out.State)
	assert.Equal(t, service.KindSlotConflict, out.Kind)
	assert.Nil(t, out.Booking)

	resp = api.post(t, "/api/v1/admissions", bookingBody(ev.ID, "12:00", "12:00"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	assert.Equal(t, 1, accepted)
}

func TestHTTP_AdmissionUnparseableTime(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{})
	ev := api.createEvent(t)

	for _, body := range []map[string]any{
		bookingBody(ev.ID, "9am", "10:00"),
		bookingBody(ev.ID, "09:00", ""),
	} {
		resp := api.post(t, "/api/v1/admissions", body)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var out service.Outcome
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, service.StateRejected, out.State)
		assert.Equal(t, service.KindInvalidInterval, out.Kind)
		assert.NotEmpty(t, out.Reason)
	}

	resp := api.post(t, "/api/v1/admissions", map[string]any{"event_id": ev.ID, "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_CreateBookingErrorCodes(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{})
	ev := api.createEvent(t)

	decode := func(resp *http.Response) errorBody {
		var body errorBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	resp := api.post(t, "/bookings", bookingBody(ev.ID, "11:00", "10:00"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, codeInvalidInterval, decode(resp).Code)

	bad := bookingBody(ev.ID, "10:00", "11:00")
	bad["email"] = "not-an-email"
	resp = api.post(t, "/bookings", bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, decode(resp).Code)
}

func TestHTTP_RequestID(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{})

	req, err := http.NewRequest(http.MethodGet, api.server.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))

	resp2, err := http.Get(api.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(requestIDHeader))
}

func TestHTTP_RateLimit(t *testing.T) {
	api := newTestAPI(t, config.APIRateLimitConfig{RPS: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(api.server.URL + "/healthz")
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
		resp.Body.Close()
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestOutcomeStatus(t *testing.T) {
	assert.Equal(t, http.StatusCreated, outcomeStatus(service.Outcome{State: service.StateAccepted}))
	assert.Equal(t, http.StatusConflict, outcomeStatus(service.Outcome{State: service.StateRejected, Kind: service.KindSlotConflict}))
	assert.Equal(t, http.StatusUnprocessableEntity, outcomeStatus(service.Outcome{State: service.StateRejected, Kind: service.KindInvalidContactInfo}))
	assert.Equal(t, http.StatusServiceUnavailable, outcomeStatus(service.Outcome{State: service.StateFailed, Kind: service.KindFetchError}))
}
