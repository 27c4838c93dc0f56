package entity

import (
	"time"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// Settings preferencias del tenant que ajustan el cálculo financiero.
type Settings struct {
	CompanyID        string
	InactivityMonths int                // 0 = usar el valor de configuración
	KPITargets       map[string]float64 // clave de KPI → objetivo
	UpdatedAt        time.Time
}

// Segmentation devuelve la configuración de segmentación, con def como respaldo.
func (s *Settings) Segmentation(def int) finance.SegmentationConfig {
	if s == nil || s.InactivityMonths < 1 {
		return finance.SegmentationConfig{InactivityMonths: def}
	}
	return finance.SegmentationConfig{InactivityMonths: s.InactivityMonths}
}

// Targets aplica los objetivos del tenant sobre base.
func (s *Settings) Targets(base finance.Targets) finance.Targets {
	if s == nil {
		return base
	}
	return base.WithOverrides(s.KPITargets)
}
