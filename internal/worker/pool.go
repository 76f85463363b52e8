package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/logger"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

// Pool runs refresh jobs on a fixed set of goroutines. Jobs arrive
// from the Redis consumer, so a full pool is reported back to the
// caller instead of silently dropped; the consumer dead-letters the
// message and Redis keeps it durable.
type Pool struct {
	workerCount int
	jobChan     chan func(context.Context) error
	wg          sync.WaitGroup
	log         zerolog.Logger
}

func NewPool(workerCount int) *Pool {
	return &Pool{
		workerCount: workerCount,
		jobChan:     make(chan func(context.Context) error, workerCount*2),
		log:         logger.With("worker_pool"),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("worker_count", p.workerCount).Msg("Starting worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) Stop() {
	p.log.Info().Msg("Stopping worker pool")
	close(p.jobChan)
	p.wg.Wait()
	p.log.Info().Msg("Worker pool stopped")
}

// Submit hands a job to an idle worker. It blocks only while the small
// channel buffer has room; beyond that the pool is saturated and the
// job is refused.
func (p *Pool) Submit(job func(context.Context) error) error {
	select {
	case p.jobChan <- job:
		return nil
	default:
		p.log.Warn().Msg("Worker pool saturated, refusing job")
		return pkgerrors.NewRetryableError(pkgerrors.ErrPoolSaturated, "worker pool saturated")
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log := p.log.With().Int("worker_id", id).Logger()
	log.Debug().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Worker stopping due to context cancellation")
			return
		case job, ok := <-p.jobChan:
			if !ok {
				log.Debug().Msg("Worker stopping due to closed job channel")
				return
			}

			if err := job(ctx); err != nil {
				log.Error().Err(err).Msg("Job execution failed")
			}
		}
	}
}
