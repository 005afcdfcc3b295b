package postgres

import (
	"context"
	"fmt"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/models"

	"github.com/jackc/pgx/v5"
)

var _ domain.SyncQueueStore = (*Store)(nil)

const syncTaskColumns = `id, task_type, booking_id, payload, status, retry_count, last_error, created_at, processed_at, next_retry_at`

func (s *Store) CreateSyncTask(ctx context.Context, task *models.SyncTask) error {
	if task.Status == "" {
		task.Status = models.SyncStatusPending
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sync_queue (task_type, booking_id, payload, status, retry_count, last_error, next_retry_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		task.TaskType, task.BookingID, task.Payload, task.Status, task.RetryCount, task.LastError, task.NextRetryAt,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sync task: %w", err)
	}
	return nil
}

func (s *Store) GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+syncTaskColumns+` FROM sync_queue
		 WHERE status = ANY($1) AND (next_retry_at IS NULL OR next_retry_at <= now())
		 ORDER BY created_at, id LIMIT $2`,
		[]string{models.SyncStatusPending, models.SyncStatusRetry}, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending sync tasks: %w", err)
	}
	return collectSyncTasks(rows)
}

func (s *Store) UpdateSyncTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error {
	var lastErr *string
	if errMsg != "" {
		lastErr = &errMsg
	}

	var err error
	switch status {
	case models.SyncStatusRetry:
		_, err = s.pool.Exec(ctx,
			`UPDATE sync_queue SET status = $1, last_error = $2, next_retry_at = $3, retry_count = retry_count + 1 WHERE id = $4`,
			status, lastErr, nextRetryAt, id)
	case models.SyncStatusCompleted, models.SyncStatusFailed:
		_, err = s.pool.Exec(ctx,
			`UPDATE sync_queue SET status = $1, last_error = $2, next_retry_at = NULL, processed_at = now() WHERE id = $3`,
			status, lastErr, id)
	default:
		_, err = s.pool.Exec(ctx,
			`UPDATE sync_queue SET status = $1, last_error = $2, next_retry_at = $3 WHERE id = $4`,
			status, lastErr, nextRetryAt, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update sync task status: %w", err)
	}
	return nil
}

func collectSyncTasks(rows pgx.Rows) ([]models.SyncTask, error) {
	defer rows.Close()

	var tasks []models.SyncTask
	for rows.Next() {
		var t models.SyncTask
		if err := rows.Scan(&t.ID, &t.TaskType, &t.BookingID, &t.Payload, &t.Status, &t.RetryCount,
			&t.LastError, &t.CreatedAt, &t.ProcessedAt, &t.NextRetryAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync tasks: %w", err)
	}
	return tasks, nil
}
