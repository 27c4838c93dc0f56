package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// Dependencias de los handlers; las implementan los casos de uso de finance.
type (
	DashboardWarmer interface {
		Dashboard(ctx context.Context, companyID string) (*dto.DashboardResponse, error)
		Today() time.Time
	}
	ClientSegmenter interface {
		Segment(ctx context.Context, companyID string, now time.Time) (*dto.SegmentationResponse, error)
	}
	AlertRaiser interface {
		KPIBelowTarget(ctx context.Context, companyID string, today time.Time, kpis []dto.KPIResponse) (int, error)
		InactiveClients(ctx context.Context, companyID string, segments []dto.ClientSegmentDTO) (int, error)
	}
	TenantLister interface {
		ListActiveIDs(ctx context.Context) ([]string, error)
	}
)

// FinanceJobs handlers asynq del dominio financiero.
type FinanceJobs struct {
	Metrics      DashboardWarmer
	Segmentation ClientSegmenter
	Alerts       AlertRaiser
	Tenants      TenantLister
	Logger       *logger.Logger
	Timeout      time.Duration // por tenant
	clock        func() time.Time
}

// NewFinanceJobs construye los handlers.
func NewFinanceJobs(metrics DashboardWarmer, segmentation ClientSegmenter, alerts AlertRaiser, tenants TenantLister, log *logger.Logger, timeout time.Duration) *FinanceJobs {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &FinanceJobs{
		Metrics:      metrics,
		Segmentation: segmentation,
		Alerts:       alerts,
		Tenants:      tenants,
		Logger:       log.Component("jobs"),
		Timeout:      timeout,
		clock:        time.Now,
	}
}

// Handlers registro para el Worker.
func (j *FinanceJobs) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskFinanceWarmup, Handler: j.HandleWarmup},
		{Type: TaskFinanceWarmupAll, Handler: j.HandleWarmupAll},
		{Type: TaskClientsSegment, Handler: j.HandleSegment},
	}
}

// HandleWarmup recalcula el dashboard de un tenant y avisa de los KPIs fuera de objetivo.
func (j *FinanceJobs) HandleWarmup(ctx context.Context, t *asynq.Task) error {
	p, err := parseTenant(t)
	if err != nil || p.CompanyID == "" {
		return fmt.Errorf("finance warmup: payload inválido: %w", asynq.SkipRetry)
	}
	return j.warm(ctx, p.CompanyID)
}

// HandleWarmupAll warmup de cada tenant activo; un fallo no detiene al resto.
func (j *FinanceJobs) HandleWarmupAll(ctx context.Context, _ *asynq.Task) error {
	return j.forEachTenant(ctx, "warmup", j.warm)
}

// HandleSegment recalcula etiquetas de clientes y avisa de los inactivos.
func (j *FinanceJobs) HandleSegment(ctx context.Context, t *asynq.Task) error {
	p, err := parseTenant(t)
	if err != nil {
		return fmt.Errorf("clients segment: payload inválido: %w", asynq.SkipRetry)
	}
	if p.CompanyID != "" {
		return j.segment(ctx, p.CompanyID)
	}
	return j.forEachTenant(ctx, "segment", j.segment)
}

func (j *FinanceJobs) warm(ctx context.Context, companyID string) error {
	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	dash, err := j.Metrics.Dashboard(ctx, companyID)
	if err != nil {
		return fmt.Errorf("warmup %s: %w", companyID, err)
	}
	alerts, err := j.Alerts.KPIBelowTarget(ctx, companyID, j.Metrics.Today(), dash.KPIs.Items)
	if err != nil {
		return err
	}
	j.Logger.Info().Str("company_id", companyID).Int("alerts", alerts).Msg("dashboard precalculado")
	return nil
}

func (j *FinanceJobs) segment(ctx context.Context, companyID string) error {
	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	seg, err := j.Segmentation.Segment(ctx, companyID, j.clock())
	if err != nil {
		return fmt.Errorf("segment %s: %w", companyID, err)
	}
	alerts, err := j.Alerts.InactiveClients(ctx, companyID, seg.Clients)
	if err != nil {
		return err
	}
	j.Logger.Info().
		Str("company_id", companyID).
		Int("inactive", seg.Counts["Inativo"]).
		Int("alerts", alerts).
		Msg("clientes segmentados")
	return nil
}

func (j *FinanceJobs) forEachTenant(ctx context.Context, name string, fn func(context.Context, string) error) error {
	ids, err := j.Tenants.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("%s: tenants: %w", name, err)
	}
	start := j.clock()
	var errs []error
	for _, id := range ids {
		if err := fn(ctx, id); err != nil {
			j.Logger.Error().Err(err).Str("company_id", id).Str("job", name).Msg("tenant fallido")
			errs = append(errs, err)
		}
	}
	j.Logger.Info().
		Str("job", name).
		Int("tenants", len(ids)).
		Int("failed", len(errs)).
		Dur("duration", time.Since(start)).
		Msg("job completado")
	return errors.Join(errs...)
}
