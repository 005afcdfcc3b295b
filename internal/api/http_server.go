package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"slotbook/internal/config"
	"slotbook/internal/domain"
	"slotbook/internal/models"
	"slotbook/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type EventService interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, title, description, date string) (*models.Event, error)
}

type BookingService interface {
	ListBookingsForEvent(ctx context.Context, eventID int64) ([]models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
}

// HTTPServer exposes the store contract over HTTP/JSON plus a server-side
// admission endpoint.
type HTTPServer struct {
	cfg       config.APIConfig
	events    EventService
	bookings  BookingService
	admission service.Admitter
	validate  *validator.Validate
	server    *http.Server
	log       zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, events EventService, bookings BookingService, admission service.Admitter, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:       cfg,
		events:    events,
		bookings:  bookings,
		admission: admission,
		validate:  validator.New(),
		log:       zerolog.Nop(),
	}
	if logger != nil {
		srv.log = logger.With().Str("component", "http").Logger()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", srv.handleListEvents)
	mux.HandleFunc("POST /events", srv.handleCreateEvent)
	mux.HandleFunc("GET /bookings-by-event-id/{id}", srv.handleListBookings)
	mux.HandleFunc("POST /bookings", srv.handleCreateBooking)
	mux.HandleFunc("POST /api/v1/admissions", srv.handleAdmission)
	mux.HandleFunc("GET /healthz", srv.handleHealth)

	limiter := newRateLimiter(cfg.RateLimit)
	handler := requestIDMiddleware(loggingMiddleware(srv.log, metricsMiddleware(limiter.Wrap(mux))))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return srv
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.events.ListEvents(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (s *HTTPServer) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var body createEventRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := s.events.CreateEvent(r.Context(), body.Title, body.Description, body.Date)
	if errors.Is(err, service.ErrInvalidEvent) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || eventID <= 0 {
		writeError(w, http.StatusBadRequest, "event id must be a positive integer")
		return
	}

	list, err := s.bookings.ListBookingsForEvent(r.Context(), eventID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name and a valid email are required")
		return
	}

	booking := req.Booking()
	err := s.bookings.CreateBooking(r.Context(), booking)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, booking)
	case errors.Is(err, domain.ErrSlotConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInterval):
		writeCodedError(w, http.StatusBadRequest, codeInvalidInterval, err.Error())
	default:
		s.internalError(w, r, err)
	}
}

// admissionRequest carries times as typed so unparseable ones come back
// as a rejected outcome rather than a decode error.
type admissionRequest struct {
	EventID int64 `json:"event_id"`
	service.FormInput
}

func (s *HTTPServer) handleAdmission(w http.ResponseWriter, r *http.Request) {
	var req admissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	form := service.NewBookingForm(s.admission, req.EventID)
	form.Set(req.FormInput)
	out := form.Submit(r.Context())
	writeJSON(w, outcomeStatus(out), out)
}

func outcomeStatus(out service.Outcome) int {
	switch out.State {
	case service.StateAccepted:
		return http.StatusCreated
	case service.StateRejected:
		if out.Kind == service.KindSlotConflict {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}

func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// codeInvalidInterval marks a 400 from POST /bookings caused by the slot
// itself, as opposed to a malformed body or contact details.
const codeInvalidInterval = "invalid_interval"

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorBody{Error: message})
}

func writeCodedError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorBody{Error: message, Code: code})
}
