package usecase

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/finance"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// SettingsUseCase preferencias del tenant: meses de inactividad y objetivos de KPI.
type SettingsUseCase struct {
	repo          repository.SettingsRepository
	targets       core.Targets
	defaultMonths int
	invalidator   finance.Invalidator
	log           *logger.Logger
	now           func() time.Time
}

// NewSettingsUseCase construye el caso de uso; targets y defaultMonths vienen de configuración.
func NewSettingsUseCase(repo repository.SettingsRepository, targets map[string]float64, defaultMonths int, invalidator finance.Invalidator, log *logger.Logger) *SettingsUseCase {
	if invalidator == nil {
		invalidator = finance.NopInvalidator{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SettingsUseCase{
		repo:          repo,
		targets:       core.DefaultTargets().WithOverrides(targets),
		defaultMonths: defaultMonths,
		invalidator:   invalidator,
		log:           log,
		now:           time.Now,
	}
}

// Get preferencias efectivas del tenant.
func (uc *SettingsUseCase) Get(ctx context.Context, companyID string) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(s), nil
}

// Update combina los cambios con lo guardado; objetivos y meses se validan antes de persistir.
func (uc *SettingsUseCase) Update(ctx context.Context, companyID string, in dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	current, err := uc.repo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s := &entity.Settings{CompanyID: companyID, KPITargets: map[string]float64{}}
	if current != nil {
		s.InactivityMonths = current.InactivityMonths
		maps.Copy(s.KPITargets, current.KPITargets)
	}
	if in.InactivityMonths != nil {
		if *in.InactivityMonths < 1 {
			return nil, fmt.Errorf("inactivity_months < 1: %w", domain.ErrInvalidInput)
		}
		s.InactivityMonths = *in.InactivityMonths
	}
	for key, v := range in.KPITargets {
		if _, ok := uc.targets.ByKey(key); !ok {
			return nil, fmt.Errorf("kpi desconocido %q: %w", key, domain.ErrInvalidInput)
		}
		if core.Sanitize(v) != v || v < 0 {
			return nil, fmt.Errorf("objetivo inválido para %q: %w", key, domain.ErrInvalidInput)
		}
		s.KPITargets[key] = v
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	if err := uc.invalidator.Invalidate(ctx, companyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("settings: invalidación de caché fallida")
	}
	return uc.toResponse(s), nil
}

func (uc *SettingsUseCase) toResponse(s *entity.Settings) *dto.SettingsResponse {
	out := &dto.SettingsResponse{
		InactivityMonths: s.Segmentation(uc.defaultMonths).InactivityMonths,
		KPITargets:       s.Targets(uc.targets).Map(),
		Overrides:        map[string]float64{},
	}
	if s != nil {
		maps.Copy(out.Overrides, s.KPITargets)
		at := s.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}
