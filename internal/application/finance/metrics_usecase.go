package finance

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// Etiquetas de las comparaciones temporales.
const (
	GroupLast30Days  = "last_30_days"
	GroupMonthToDate = "month_to_date"

	DeltaSales  = "sales"
	DeltaSpent  = "spent"
	DeltaProfit = "profit"
)

// MetricsOptions parámetros de configuración del caso de uso.
type MetricsOptions struct {
	Targets  map[string]float64 // objetivos de configuración sobre los valores por defecto
	Location *time.Location     // zona del "hoy" de las ventanas relativas
	Language language.Tag
	Logger   *logger.Logger
}

// MetricsUseCase resumen, KPIs, comparaciones y dashboard de un tenant.
// Todo el cálculo pasa por el núcleo; aquí solo se leen datos, se combinan y se formatean.
type MetricsUseCase struct {
	repo     repository.FinanceRepository
	settings repository.SettingsRepository
	cache    Cache
	targets  core.Targets
	loc      *time.Location
	format   Formatter
	log      *logger.Logger
	now      func() time.Time
}

// NewMetricsUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewMetricsUseCase(repo repository.FinanceRepository, settings repository.SettingsRepository, cache Cache, opts MetricsOptions) *MetricsUseCase {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &MetricsUseCase{
		repo:     repo,
		settings: settings,
		cache:    cache,
		targets:  core.DefaultTargets().WithOverrides(opts.Targets),
		loc:      loc,
		format:   NewFormatter(opts.Language),
		log:      log.Component("finance"),
		now:      time.Now,
	}
}

// Today fecha actual en la zona configurada.
func (uc *MetricsUseCase) Today() time.Time {
	return core.DateOf(uc.now().In(uc.loc))
}

// documents ventas, compras y gastos del tenant en window, leídos en paralelo.
type documents struct {
	sales, purchases, expenses []core.Document
}

func (uc *MetricsUseCase) fetch(ctx context.Context, companyID string, window *core.DateRange) (documents, error) {
	var docs documents
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs.sales, err = uc.repo.SalesDocuments(gctx, companyID, window)
		return err
	})
	g.Go(func() error {
		var err error
		docs.purchases, err = uc.repo.PurchaseDocuments(gctx, companyID, window)
		return err
	})
	g.Go(func() error {
		var err error
		docs.expenses, err = uc.repo.ExpenseDocuments(gctx, companyID, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return documents{}, fmt.Errorf("finance: documentos: %w", err)
	}
	return docs, nil
}

// Summary agregado de la ventana (nil = todo el histórico).
func (uc *MetricsUseCase) Summary(ctx context.Context, companyID string, window *core.DateRange) (*dto.SummaryResponse, error) {
	docs, err := uc.fetch(ctx, companyID, window)
	if err != nil {
		return nil, err
	}
	snap := core.BuildSnapshot(docs.sales, docs.purchases, docs.expenses, window)
	return toSummaryResponse(snap, window), nil
}

// KPIs los 8 indicadores de la ventana con objetivos de configuración + tenant.
func (uc *MetricsUseCase) KPIs(ctx context.Context, companyID string, window *core.DateRange) (*dto.KPIListResponse, error) {
	var (
		docs    documents
		counts  core.Counts
		targets core.Targets
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = uc.fetch(gctx, companyID, window)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = uc.repo.Counts(gctx, companyID, window)
		if err != nil {
			return fmt.Errorf("finance: conteos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		targets, err = uc.Targets(gctx, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap := core.BuildSnapshot(docs.sales, docs.purchases, docs.expenses, window)
	return uc.toKPIList(core.DeriveKPIs(snap, counts, targets), counts, window), nil
}

// Targets objetivos efectivos del tenant.
func (uc *MetricsUseCase) Targets(ctx context.Context, companyID string) (core.Targets, error) {
	if uc.settings == nil {
		return uc.targets, nil
	}
	s, err := uc.settings.Get(ctx, companyID)
	if err != nil {
		return core.Targets{}, fmt.Errorf("finance: settings: %w", err)
	}
	return s.Targets(uc.targets), nil
}

// Comparisons últimos 30 días vs 30 anteriores y mes en curso vs mes anterior,
// para ventas, gasto y lucro. Lee una sola vez el rango que cubre las cuatro ventanas.
func (uc *MetricsUseCase) Comparisons(ctx context.Context, companyID string, today time.Time) (*dto.ComparisonsResponse, error) {
	today = core.DateOf(today)
	pairs := []struct {
		label             string
		current, previous core.DateRange
	}{
		{GroupLast30Days, core.Last30Days(today), core.Previous30Days(today)},
		{GroupMonthToDate, core.MonthToDate(today), core.PreviousMonth(today)},
	}

	span := pairs[0].previous
	for _, p := range pairs {
		if p.previous.Start.Before(span.Start) {
			span.Start = p.previous.Start
		}
		if p.current.End.After(span.End) {
			span.End = p.current.End
		}
	}
	docs, err := uc.fetch(ctx, companyID, &span)
	if err != nil {
		return nil, err
	}

	out := &dto.ComparisonsResponse{Today: dto.FormatDate(today), Groups: make([]dto.ComparisonGroup, 0, len(pairs))}
	for _, p := range pairs {
		cur := core.BuildSnapshot(docs.sales, docs.purchases, docs.expenses, &p.current)
		prev := core.BuildSnapshot(docs.sales, docs.purchases, docs.expenses, &p.previous)
		deltas := []core.Delta{
			core.CompareWindows(DeltaSales, cur.TotalSales, prev.TotalSales),
			core.CompareWindows(DeltaSpent, cur.TotalSpent, prev.TotalSpent),
			core.CompareWindows(DeltaProfit, cur.Profit, prev.Profit),
		}
		out.Groups = append(out.Groups, dto.ComparisonGroup{
			Label:    p.label,
			Current:  *dto.NewWindowDTO(&p.current),
			Previous: *dto.NewWindowDTO(&p.previous),
			Deltas:   toDeltaResponses(deltas),
		})
	}
	return out, nil
}

// Dashboard resumen y KPIs de todo el histórico más las comparaciones de hoy.
// Se cachea por tenant y día; cualquier escritura de documentos invalida la versión.
func (uc *MetricsUseCase) Dashboard(ctx context.Context, companyID string) (*dto.DashboardResponse, error) {
	today := uc.Today()
	if uc.cache == nil {
		return uc.buildDashboard(ctx, companyID, today)
	}
	key, err := uc.cache.BuildKey(ctx, companyID, "dashboard", dto.FormatDate(today))
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("cache key, calculando sin caché")
		return uc.buildDashboard(ctx, companyID, today)
	}
	var out dto.DashboardResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return uc.buildDashboard(ctx, companyID, today)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *MetricsUseCase) buildDashboard(ctx context.Context, companyID string, today time.Time) (*dto.DashboardResponse, error) {
	var (
		docs        documents
		counts      core.Counts
		targets     core.Targets
		comparisons *dto.ComparisonsResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = uc.fetch(gctx, companyID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = uc.repo.Counts(gctx, companyID, nil)
		if err != nil {
			return fmt.Errorf("finance: conteos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		targets, err = uc.Targets(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		comparisons, err = uc.Comparisons(gctx, companyID, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := core.BuildSnapshot(docs.sales, docs.purchases, docs.expenses, nil)
	out := &dto.DashboardResponse{
		Summary:     *toSummaryResponse(snap, nil),
		KPIs:        *uc.toKPIList(core.DeriveKPIs(snap, counts, targets), counts, nil),
		Comparisons: *comparisons,
		GeneratedAt: uc.now().UTC(),
	}
	uc.log.Debug().Str("company_id", companyID).Msg("dashboard recalculado")
	return out, nil
}

// ──── Conversión a DTO ────────────────────────────────────────────────────

func toSummaryResponse(s core.Snapshot, window *core.DateRange) *dto.SummaryResponse {
	return &dto.SummaryResponse{
		Window:         dto.NewWindowDTO(window),
		TotalSales:     money(s.TotalSales),
		TotalPurchases: money(s.TotalPurchases),
		TotalExpenses:  money(s.TotalExpenses),
		TotalSpent:     money(s.TotalSpent),
		Profit:         money(s.Profit),
		ProfitMargin:   money(s.ProfitMargin),
		ROI:            money(s.ROI),
	}
}

func (uc *MetricsUseCase) toKPIList(kpis []core.KPI, c core.Counts, window *core.DateRange) *dto.KPIListResponse {
	items := make([]dto.KPIResponse, 0, len(kpis))
	for _, k := range kpis {
		items = append(items, dto.KPIResponse{
			Key:           k.Key,
			Name:          k.Name,
			Value:         money(k.Value),
			Target:        money(k.Target),
			Display:       uc.format.Format(k.Value, k.Unit),
			TargetDisplay: uc.format.Format(k.Target, k.Unit),
			Unit:          k.Unit,
			Description:   k.Description,
			Formula:       k.Formula,
			BelowTarget:   k.BelowTarget,
			IsInverse:     k.IsInverse,
			IsPercentage:  k.IsPercentage,
		})
	}
	return &dto.KPIListResponse{
		Window: dto.NewWindowDTO(window),
		Items:  items,
		Counts: dto.CountsDTO{
			CompletedOrders: c.CompletedOrders,
			Clients:         c.Clients,
			Suppliers:       c.Suppliers,
			SupplierEntries: c.SupplierEntries,
			Expenses:        c.Expenses,
		},
	}
}

func toDeltaResponses(deltas []core.Delta) []dto.DeltaResponse {
	out := make([]dto.DeltaResponse, 0, len(deltas))
	for _, d := range deltas {
		out = append(out, dto.DeltaResponse{
			Label:         d.Label,
			Current:       money(d.Current),
			Previous:      money(d.Previous),
			PercentChange: moneyPtr(d.PercentChange),
		})
	}
	return out
}
