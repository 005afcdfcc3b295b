package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slotbook/internal/config"
	"slotbook/internal/domain"
	"slotbook/internal/models"
	"slotbook/internal/worker"

	"github.com/rs/zerolog"
)

// StatusError is a non-2xx answer that has no store sentinel.
type StatusError struct {
	Code    int
	Message string
	// ErrorCode is the server's machine-readable code, if it sent one.
	ErrorCode string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Message)
}

// StoreClient talks to a remote slotbook API and implements domain.Store.
type StoreClient struct {
	baseURL    string
	httpClient *http.Client
	retry      worker.RetryPolicy
	log        zerolog.Logger
}

var _ domain.Store = (*StoreClient)(nil)

func NewStoreClient(cfg config.StoreConfig, logger *zerolog.Logger) *StoreClient {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &StoreClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      worker.PolicyFromStore(cfg),
		log:        zerolog.Nop(),
	}
	if logger != nil {
		c.log = logger.With().Str("component", "store_client").Logger()
	}
	return c
}

func (c *StoreClient) ListEvents(ctx context.Context) ([]models.Event, error) {
	var list []models.Event
	if err := c.doGet(ctx, "/events", &list); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if list == nil {
		list = []models.Event{}
	}
	return list, nil
}

// GetEvent resolves the event from the listing; the API has no single-event route.
func (c *StoreClient) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	list, err := c.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (c *StoreClient) CreateEvent(ctx context.Context, event *models.Event) error {
	body := createEventRequest{
		Title:       event.Title,
		Description: event.Description,
		Date:        event.DateString(),
	}
	var created models.Event
	if err := c.doPost(ctx, "/events", body, &created); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	*event = created
	return nil
}

func (c *StoreClient) ListBookingsForEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	var list []models.Booking
	if err := c.doGet(ctx, fmt.Sprintf("/bookings-by-event-id/%d", eventID), &list); err != nil {
		return nil, fmt.Errorf("failed to list bookings for event %d: %w", eventID, err)
	}
	if list == nil {
		list = []models.Booking{}
	}
	return list, nil
}

// CreateBooking is sent once; a lost response must not turn into a second booking.
func (c *StoreClient) CreateBooking(ctx context.Context, booking *models.Booking) error {
	body := models.BookingRequest{
		EventID: booking.EventID,
		Name:    booking.Name,
		Email:   booking.Email,
		Start:   booking.StartTime,
		End:     booking.EndTime,
	}
	var created models.Booking
	err := c.doPost(ctx, "/bookings", body, &created)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.ErrorCode == codeInvalidInterval {
		err = fmt.Errorf("%w: %s", domain.ErrInvalidInterval, statusErr.Message)
	}
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	*booking = created
	return nil
}

func (c *StoreClient) doGet(ctx context.Context, path string, out any) error {
	return c.retry.Do(ctx, retryable, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		err = c.do(req, out)
		if err != nil && retryable(err) {
			c.log.Warn().Err(err).Str("path", path).Msg("store read failed")
		}
		return err
	})
}

func (c *StoreClient) doPost(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *StoreClient) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if json.Unmarshal(raw, &body) != nil {
		body.Error = strings.TrimSpace(string(raw))
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrSlotConflict, strings.TrimPrefix(body.Error, domain.ErrSlotConflict.Error()+": "))
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrEventNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: http %d", domain.ErrStoreUnavailable, resp.StatusCode)
	default:
		return &StatusError{Code: resp.StatusCode, Message: body.Error, ErrorCode: body.Code}
	}
}

func retryable(err error) bool {
	return errors.Is(err, domain.ErrStoreUnavailable)
}
