package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"slotbook/internal/config"
	"slotbook/internal/database"
	"slotbook/internal/events"
	"slotbook/internal/models"
	"slotbook/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTelegramService struct {
	mu          sync.Mutex
	updatesChan chan tgbotapi.Update
	sent        []tgbotapi.MessageConfig
	answered    int
}

func (m *mockTelegramService) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updatesChan
}

func (m *mockTelegramService) StopReceivingUpdates() {}

func (m *mockTelegramService) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "test_bot"}
}

func (m *mockTelegramService) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockTelegramService) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

func (m *mockTelegramService) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// flakyStore fails booking lookups while down is set.
type flakyStore struct {
	*database.DB
	mu   sync.Mutex
	down bool
}

func (s *flakyStore) setDown(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = v
}

func (s *flakyStore) ListBookingsForEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	s.mu.Lock()
	down := s.down
	s.mu.Unlock()
	if down {
		return nil, errors.New("connection refused")
	}
	return s.DB.ListBookingsForEvent(ctx, eventID)
}

type fixture struct {
	bot   *Bot
	tg    *mockTelegramService
	store *flakyStore
	event *models.Event
}

func newFixture(t *testing.T, cfg config.TelegramConfig) *fixture {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "bot.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ev := &models.Event{Title: "Workshop", Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.CreateEvent(context.Background(), ev))

	store := &flakyStore{DB: db}
	tg := &mockTelegramService{updatesChan: make(chan tgbotapi.Update, 4)}
	admission := service.NewAdmission(store, events.NewEventBus(), nil)

	return &fixture{
		bot:   NewBot(tg, cfg, store, admission, nil),
		tg:    tg,
		store: store,
		event: ev,
	}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}}
}

func (f *fixture) say(t *testing.T, userID int64, text string) string {
	t.Helper()
	f.bot.processUpdate(context.Background(), textUpdate(userID, text))
	return f.tg.last(t).Text
}

func (f *fixture) tap(t *testing.T, userID int64, data string) tgbotapi.MessageConfig {
	t.Helper()
	f.bot.processUpdate(context.Background(), callbackUpdate(userID, data))
	return f.tg.last(t)
}

func (f *fixture) eventData() string {
	return callbackEvent + strconv.FormatInt(f.event.ID, 10)
}

func TestBotStart(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.bot.Start(ctx)
		close(done)
	}()

	f.tg.updatesChan <- textUpdate(1, "/start")
	require.Eventually(t, func() bool { return f.tg.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, f.tg.last(t).Text, "/events")

	cancel()
	<-done
}

func TestBot_ShowEvents(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	f.bot.processUpdate(context.Background(), textUpdate(1, "/events"))
	msg := f.tg.last(t)
	assert.Equal(t, msgChooseEvent, msg.Text)

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	btn := markup.InlineKeyboard[0][0]
	assert.Equal(t, "Workshop · 2026-11-02", btn.Text)
	require.NotNil(t, btn.CallbackData)
	assert.Equal(t, f.eventData(), *btn.CallbackData)
}

func TestBot_BookingConversation(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	msg := f.tap(t, 1, f.eventData())
	assert.Contains(t, msg.Text, "Booking Workshop on 2026-11-02.")
	assert.Contains(t, msg.Text, "What is your name?")
	assert.Equal(t, 1, f.tg.answered)

	assert.Equal(t, "What is your email?", f.say(t, 1, "Ada"))
	assert.Equal(t, "Start time (HH:MM)?", f.say(t, 1, "ada@example.com"))
	assert.Equal(t, "End time (HH:MM)?", f.say(t, 1, "09:00"))

	reply := f.say(t, 1, "10:00")
	assert.Contains(t, reply, "Booked Workshop, 09:00-10:00.")
	assert.Contains(t, reply, "Booking number:")

	_, ok := f.bot.sessions.get(1)
	assert.False(t, ok, "session is cleared after acceptance")

	bookings, err := f.store.DB.ListBookingsForEvent(context.Background(), f.event.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Ada", bookings[0].Name)
}

func TestBot_ConflictKeepsContactDetails(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	f.tap(t, 1, f.eventData())
	f.say(t, 1, "Ada")
	f.say(t, 1, "ada@example.com")
	f.say(t, 1, "09:00")
	f.say(t, 1, "10:00")

	f.tap(t, 2, f.eventData())
	f.say(t, 2, "Bob")
	f.say(t, 2, "bob@example.com")
	f.say(t, 2, "09:30")
	reply := f.say(t, 2, "10:30")
	assert.Contains(t, reply, "already taken")
	assert.Contains(t, reply, "Start time (HH:MM)? Currently: 09:30")

	sess, ok := f.bot.sessions.get(2)
	require.True(t, ok)
	assert.Equal(t, service.FormInput{Name: "Bob", Email: "bob@example.com", Start: "09:30", End: "10:30"}, sess.Form.Input())

	assert.Equal(t, "End time (HH:MM)? Currently: 10:30", f.say(t, 2, "10:00"))
	assert.Contains(t, f.say(t, 2, "11:00"), "Booked Workshop, 10:00-11:00.")
}

func TestBot_InvalidEmailAsksOnlyEmail(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	f.tap(t, 1, f.eventData())
	f.say(t, 1, "Ada")
	f.say(t, 1, "not-an-email")
	f.say(t, 1, "09:00")
	reply := f.say(t, 1, "10:00")
	assert.Contains(t, reply, "email address is not valid")
	assert.Contains(t, reply, "What is your email? Currently: not-an-email")

	assert.Contains(t, f.say(t, 1, "ada@example.com"), "Booked Workshop, 09:00-10:00.")
}

func TestBot_BadEndTimeAsksEnd(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	f.tap(t, 1, f.eventData())
	f.say(t, 1, "Ada")
	f.say(t, 1, "ada@example.com")
	f.say(t, 1, "09:00")
	reply := f.say(t, 1, "ten")
	assert.Contains(t, reply, `end time "ten" is not a valid time`)
	assert.Contains(t, reply, "End time (HH:MM)? Currently: ten")
}

func TestBot_FailureOffersRetry(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	f.tap(t, 1, f.eventData())
	f.say(t, 1, "Ada")
	f.say(t, 1, "ada@example.com")
	f.say(t, 1, "09:00")

	f.store.setDown(true)
	f.bot.processUpdate(context.Background(), textUpdate(1, "10:00"))
	msg := f.tg.last(t)
	assert.Contains(t, msg.Text, "Could not check availability")
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, btnRetry, markup.InlineKeyboard[0][0].Text)

	assert.Equal(t, msgUseRetry, f.say(t, 1, "hello"))

	f.store.setDown(false)
	assert.Contains(t, f.tap(t, 1, callbackRetry).Text, "Booked Workshop, 09:00-10:00.")
	assert.Equal(t, msgNothingToRetry, f.tap(t, 1, callbackRetry).Text)
}

func TestBot_CancelAndUnknownEvent(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	assert.Equal(t, msgPickEvent, f.say(t, 1, "hello"))

	f.tap(t, 1, f.eventData())
	assert.Equal(t, msgCancelled, f.say(t, 1, "/cancel"))
	assert.Equal(t, msgPickEvent, f.say(t, 1, "Ada"))

	assert.Equal(t, msgEventGone, f.tap(t, 1, callbackEvent+"999").Text)
	assert.Equal(t, msgUnknownCommand, f.say(t, 1, "/dance"))
}

func TestBot_RateLimit(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{RateLimitMessages: 2, RateLimitWindow: 3600})

	f.say(t, 1, "/help")
	f.say(t, 1, "/help")
	assert.Equal(t, msgSlowDown, f.say(t, 1, "/help"))

	assert.Contains(t, f.say(t, 2, "/help"), "/events", "limits are per user")
}

func TestBot_RecoversFromPanic(t *testing.T) {
	f := newFixture(t, config.TelegramConfig{})

	assert.NotPanics(t, func() {
		f.bot.withRecovery(func() { panic("boom") })
	})
}

func TestCorrectionStep(t *testing.T) {
	tests := []struct {
		name string
		kind service.Kind
		in   service.FormInput
		want bookingStep
	}{
		{"missing name", service.KindInvalidContactInfo, service.FormInput{Email: "x"}, stepName},
		{"bad email", service.KindInvalidContactInfo, service.FormInput{Name: "Ada", Email: "x"}, stepEmail},
		{"reversed", service.KindInvalidInterval, service.FormInput{Start: "11:00", End: "10:00"}, stepStart},
		{"bad start", service.KindInvalidInterval, service.FormInput{Start: "x", End: "10:00"}, stepStart},
		{"bad end", service.KindInvalidInterval, service.FormInput{Start: "09:00", End: "x"}, stepEnd},
		{"conflict", service.KindSlotConflict, service.FormInput{Start: "09:00", End: "10:00"}, stepStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, correctionStep(tt.kind, tt.in))
		})
	}
}
