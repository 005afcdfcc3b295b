package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// TaskAppendBooking mirrors one accepted booking into the spreadsheet.
const TaskAppendBooking = "append_booking"

const (
	redisQueueKey = "sheets:queue"
	deadLetterKey = "sheets:deadletter"
)

var errPermanent = errors.New("permanent sync failure")

// SheetsWorker drains sync_queue tasks into Google Sheets. Every task is
// persisted first; redis or the in-memory channel only shorten the wait,
// and anything they lose is picked up by polling the table.
type SheetsWorker struct {
	tasks        domain.SyncQueueStore
	events       domain.EventStore
	sheets       domain.SheetsWriter
	redis        *redis.Client
	retryPolicy  RetryPolicy
	queue        chan models.SyncTask
	pollInterval time.Duration
	batchSize    int
	now          func() time.Time
	logger       zerolog.Logger
}

var _ domain.SyncWorker = (*SheetsWorker)(nil)

func NewSheetsWorker(tasks domain.SyncQueueStore, events domain.EventStore, sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "sheets_worker").Logger()
	}

	return &SheetsWorker{
		tasks:        tasks,
		events:       events,
		sheets:       sheets,
		redis:        redisClient,
		retryPolicy:  retry,
		queue:        make(chan models.SyncTask, models.WorkerQueueSize),
		pollInterval: 2 * time.Second,
		batchSize:    20,
		now:          time.Now,
		logger:       l,
	}
}

// EnqueueBooking records a sync task for an accepted booking.
func (w *SheetsWorker) EnqueueBooking(ctx context.Context, booking *models.Booking) error {
	task, err := models.NewBookingTask(TaskAppendBooking, booking)
	if err != nil {
		return err
	}
	if err := w.tasks.CreateSyncTask(ctx, &task); err != nil {
		return fmt.Errorf("persist sync task: %w", err)
	}

	if w.redis != nil {
		err := w.pushRedis(ctx, redisQueueKey, &task)
		if err == nil {
			return nil
		}
		w.logger.Warn().Err(err).Int64("task_id", task.ID).Msg("redis push failed, using memory queue")
	}

	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Int64("task_id", task.ID).Msg("memory queue full, task left to polling")
	}
	return nil
}

// Start runs until ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sheets worker started")
	defer w.logger.Info().Msg("sheets worker stopped")

	for ctx.Err() == nil {
		if !w.step(ctx) && !w.sleep(ctx) {
			return
		}
	}
}

// step handles one unit of queued work and reports whether any was found.
func (w *SheetsWorker) step(ctx context.Context) bool {
	if t, ok := w.tryLocalQueue(); ok {
		w.processTask(ctx, &t)
		return true
	}
	if t, ok := w.tryRedis(ctx); ok {
		w.processTask(ctx, &t)
		return true
	}

	tasks, err := w.tasks.GetPendingSyncTasks(ctx, w.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("fetch pending tasks")
		}
		return false
	}
	for i := range tasks {
		w.processTask(ctx, &tasks[i])
	}
	return len(tasks) > 0
}

func (w *SheetsWorker) sleep(ctx context.Context) bool {
	timer := time.NewTimer(w.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (w *SheetsWorker) tryLocalQueue() (models.SyncTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.SyncTask{}, false
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (models.SyncTask, bool) {
	if w.redis == nil {
		return models.SyncTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, redisQueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.logger.Warn().Err(err).Msg("redis BRPOP failed")
		}
		return models.SyncTask{}, false
	}
	if len(res) != 2 {
		return models.SyncTask{}, false
	}
	var task models.SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode redis task")
		return models.SyncTask{}, false
	}
	return task, true
}

func (w *SheetsWorker) processTask(ctx context.Context, task *models.SyncTask) {
	err := w.apply(ctx, task)
	switch {
	case err == nil:
		if err := w.tasks.UpdateSyncTaskStatus(ctx, task.ID, models.SyncStatusCompleted, "", nil); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark completed")
		}
	case errors.Is(err, errPermanent):
		w.fail(ctx, task, err)
	default:
		w.retryOrFail(ctx, task, err)
	}
}

func (w *SheetsWorker) apply(ctx context.Context, task *models.SyncTask) error {
	if task.TaskType != TaskAppendBooking {
		return fmt.Errorf("%w: unknown task type %q", errPermanent, task.TaskType)
	}

	booking, err := task.Booking()
	if err != nil {
		return fmt.Errorf("%w: decode payload: %v", errPermanent, err)
	}

	event, err := w.events.GetEvent(ctx, booking.EventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return fmt.Errorf("%w: %v", errPermanent, err)
	}
	if err != nil {
		return err
	}
	return w.sheets.AppendBooking(ctx, event, booking)
}

func (w *SheetsWorker) retryOrFail(ctx context.Context, task *models.SyncTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.fail(ctx, task, cause)
		return
	}

	next := w.now().Add(w.retryPolicy.NextDelay(attempt))
	if err := w.tasks.UpdateSyncTaskStatus(ctx, task.ID, models.SyncStatusRetry, cause.Error(), &next); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark retry")
		return
	}
	w.logger.Warn().Err(cause).Int64("task_id", task.ID).Int("attempt", attempt).Time("next_retry_at", next).Msg("sheet sync will be retried")
}

func (w *SheetsWorker) fail(ctx context.Context, task *models.SyncTask, cause error) {
	if err := w.tasks.UpdateSyncTaskStatus(ctx, task.ID, models.SyncStatusFailed, cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark failed")
	}
	w.logger.Error().Err(cause).Int64("task_id", task.ID).Int64("booking_id", task.BookingID).Msg("sheet sync failed")

	if w.redis == nil {
		return
	}
	if err := w.pushRedis(ctx, deadLetterKey, task); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("dead-letter push failed")
	}
}

func (w *SheetsWorker) pushRedis(ctx context.Context, key string, task *models.SyncTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, key, data).Err()
}
