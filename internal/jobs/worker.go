package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// Worker wraps the asynq server that drains the email queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker creates a Worker that hands email:send tasks to handler.
func NewWorker(cfg *config.AppConfig, handler *EmailHandler) (*Worker, error) {
	if handler == nil {
		return nil, errors.New("worker: email handler is required")
	}

	concurrency := cfg.Queue.Concurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultQueueConcurrency
	}

	srv := asynq.NewServer(RedisOpt(&cfg.Redis), asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			constants.QueueCritical: 6,
			constants.QueueDefault:  3,
		},
		ShutdownTimeout: constants.WorkerShutdownTimeout,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Error().
				Err(err).
				Str("task_type", task.Type()).
				Int("retried", retried).
				Int("max_retry", maxRetry).
				Msg("Task failed")
		}),
	})

	return &Worker{server: srv, mux: NewServeMux(handler)}, nil
}

// NewServeMux registers the task handlers.
func NewServeMux(handler *EmailHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskTypeSendEmail, handler.HandleSendEmail)
	return mux
}

// Run processes tasks until ctx is cancelled, then drains in-flight tasks.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}

	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	log.Info().Msg("Email worker started")

	<-ctx.Done()
	w.server.Shutdown()
	log.Info().Msg("Email worker stopped")
	return ctx.Err()
}
