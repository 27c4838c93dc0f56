package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Estoque-api/internal/application/finance"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

var _ finance.Invalidator = (*Enqueuer)(nil)

// warmupDelay agrupa ráfagas de escrituras del mismo tenant en un único warmup.
const warmupDelay = 5 * time.Second

// TaskClient subconjunto de *asynq.Client que usa el Enqueuer.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer invalida la caché financiera del tenant y programa su warmup.
type Enqueuer struct {
	client TaskClient
	cache  finance.Cache
	log    *logger.Logger
}

// NewEnqueuer construye el invalidador. client o cache nil desactivan la parte correspondiente.
func NewEnqueuer(client TaskClient, cache finance.Cache, log *logger.Logger) *Enqueuer {
	if log == nil {
		log = logger.Nop()
	}
	return &Enqueuer{client: client, cache: cache, log: log.Component("jobs")}
}

// Invalidate incrementa la versión de caché del tenant y encola un warmup único.
// Un warmup ya pendiente para el tenant no es un error.
func (e *Enqueuer) Invalidate(ctx context.Context, companyID string) error {
	if e.cache != nil {
		if err := e.cache.Bump(ctx, companyID); err != nil {
			return fmt.Errorf("invalidate cache: %w", err)
		}
	}
	if e.client == nil {
		return nil
	}
	task, err := NewFinanceWarmupTask(companyID)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.ProcessIn(warmupDelay),
		asynq.Unique(time.Minute),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		// la caché ya está invalidada; el warmup se recupera en el siguiente cron
		e.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo encolar warmup")
	}
	return nil
}
