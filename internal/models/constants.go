package models

// DateLayout is the wire and storage form of an event's calendar date.
const DateLayout = "2006-01-02"

const (
	SyncStatusPending   = "pending"
	SyncStatusRetry     = "retry"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

const (
	// DefaultSnapshotTTL is how long a cached booking list stays valid, in seconds.
	DefaultSnapshotTTL = 60

	// WorkerQueueSize is the in-memory buffer of the sheets worker.
	WorkerQueueSize = 128

	// DefaultRateLimitBurst applies when api.rate_limit.burst is unset.
	DefaultRateLimitBurst = 5
)
