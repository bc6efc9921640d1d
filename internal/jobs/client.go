package jobs

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/mail"
)

// maxEmailRetries bounds redelivery of a failed email task.
const maxEmailRetries = 5

// enqueuer is the part of asynq.Client the queue uses.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// RedisOpt converts the Redis settings into asynq connection options.
func RedisOpt(cfg *config.RedisSettings) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Client submits email tasks to the queue.
type Client struct {
	client enqueuer
}

// NewClient creates a Client connected to the configured Redis broker.
func NewClient(cfg *config.RedisSettings) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

// EnqueueEmail queues msg for delivery by the worker.
func (c *Client) EnqueueEmail(ctx context.Context, msg mail.Message) error {
	task, err := NewSendEmailTask(msg)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(constants.QueueCritical),
		asynq.MaxRetry(maxEmailRetries),
	)
	if err != nil {
		return err
	}

	log.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("Email task enqueued")
	return nil
}

// Close releases the broker connection.
func (c *Client) Close() error {
	return c.client.Close()
}
