package services

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rahasiadapur/backend/internal/config"
	"github.com/rahasiadapur/backend/pkg/logger"
)

const TaskTypeMediaPurge = "media:purge"

// MediaPurgeTask asks for a cloud object to be deleted after its recipe or
// tip stopped referencing it.
type MediaPurgeTask struct {
	PublicID  string `json:"public_id"`
	MediaType string `json:"media_type"` // image, video
}

// TaskQueue defines the interface for media purge processing.
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *MediaPurgeTask) error
	// IsAsync returns true if queue processes tasks asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

// NewTaskQueue builds the task queue from config: Redis-backed when enabled,
// synchronous fallback otherwise.
func NewTaskQueue(cfg *config.Config) TaskQueue {
	if cfg.Redis.Enabled {
		logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
		return NewAsyncQueue(&cfg.Redis)
	}
	logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
	return NewSyncQueue()
}

// AsyncQueue implements TaskQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(cfg *config.RedisConfig) *AsyncQueue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &AsyncQueue{client: client}
}

func (q *AsyncQueue) Enqueue(task *MediaPurgeTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	_, err = q.client.Enqueue(asynq.NewTask(TaskTypeMediaPurge, payload))
	return err
}

func (q *AsyncQueue) IsAsync() bool { return true }

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements TaskQueue by running the processor inline. Used when
// Redis is not configured.
type SyncQueue struct {
	processor func(context.Context, *MediaPurgeTask) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function invoked on Enqueue.
func (q *SyncQueue) SetProcessor(processor func(context.Context, *MediaPurgeTask) error) {
	q.processor = processor
}

func (q *SyncQueue) Enqueue(task *MediaPurgeTask) error {
	if q.processor == nil {
		return nil
	}
	if err := q.processor(context.Background(), task); err != nil {
		// Purge failures leave an orphaned object behind, not broken data
		logger.Warn().Err(err).Str("public_id", task.PublicID).Msg("media purge failed")
	}
	return nil
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }
