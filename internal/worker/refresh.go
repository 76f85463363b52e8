package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/config"
	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/model"
	"github.com/Cxsmxnaut/Gradely/internal/queue"
	"github.com/Cxsmxnaut/Gradely/internal/service"
)

// RefreshWorker drains the refresh queue and runs each job through the
// grades service on the worker pool.
type RefreshWorker struct {
	cfg      *config.Config
	grades   *service.Grades
	consumer *queue.Consumer
	pool     *Pool
	log      zerolog.Logger
}

func NewRefreshWorker(
	cfg *config.Config,
	grades *service.Grades,
	redisClient *queue.RedisClient,
) *RefreshWorker {
	return &RefreshWorker{
		cfg:      cfg,
		grades:   grades,
		consumer: queue.NewConsumer(redisClient, cfg),
		pool:     NewPool(cfg.Workers.Refresh.Count),
		log:      logger.With("refresh_worker"),
	}
}

func (w *RefreshWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting refresh worker")

	w.pool.Start(ctx)

	return w.consumer.ConsumeRefreshQueue(ctx, w.handleMessage)
}

func (w *RefreshWorker) Stop() {
	w.log.Info().Msg("Stopping refresh worker")
	w.pool.Stop()
}

func (w *RefreshWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.RefreshJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal refresh job")
		return err
	}

	w.log.Info().Str("user_id", job.UserID).Str("session_id", job.SessionID).Msg("Processing refresh job")

	// A refused submit sends the message to the dead letter queue
	// instead of losing it.
	return w.pool.Submit(func(ctx context.Context) error {
		return w.grades.RunRefresh(ctx, job)
	})
}
