package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo preferencias por tenant; kpi_targets es JSONB (map clave → objetivo).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve (nil, nil) si el tenant no tiene fila en settings.
func (r *SettingsRepo) Get(ctx context.Context, companyID string) (*entity.Settings, error) {
	var s entity.Settings
	err := r.q.QueryRow(ctx, `
		SELECT company_id, inactivity_months, kpi_targets, updated_at
		FROM settings WHERE company_id = $1`, companyID,
	).Scan(&s.CompanyID, &s.InactivityMonths, &s.KPITargets, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if s.KPITargets == nil {
		s.KPITargets = map[string]float64{}
	}
	return &s, nil
}

// Upsert crea o reemplaza las preferencias del tenant.
func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.Settings) error {
	targets := s.KPITargets
	if targets == nil {
		targets = map[string]float64{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO settings (company_id, inactivity_months, kpi_targets, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id) DO UPDATE
		SET inactivity_months = EXCLUDED.inactivity_months,
		    kpi_targets = EXCLUDED.kpi_targets,
		    updated_at = EXCLUDED.updated_at`,
		s.CompanyID, s.InactivityMonths, targets, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
