package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// Alerts convierte resultados financieros en avisos para el tenant.
// Cada aviso lleva un RefKey con periodo: el mismo hecho solo se avisa una vez.
type Alerts struct {
	notifications repository.NotificationRepository
	now           func() time.Time
}

// NewAlerts construye el generador de avisos.
func NewAlerts(notifications repository.NotificationRepository) *Alerts {
	return &Alerts{notifications: notifications, now: time.Now}
}

// KPIBelowTarget un aviso por KPI por debajo del objetivo, como máximo uno por KPI y día.
func (a *Alerts) KPIBelowTarget(ctx context.Context, companyID string, today time.Time, kpis []dto.KPIResponse) (int, error) {
	created := 0
	for _, k := range kpis {
		if !k.BelowTarget {
			continue
		}
		verb := "abaixo"
		if k.IsInverse {
			verb = "acima"
		}
		ok, err := a.notifications.Create(ctx, &entity.Notification{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Type:      entity.NotificationKPIBelowTarget,
			Title:     k.Name + " fora do objetivo",
			Message:   fmt.Sprintf("%s está em %s, %s do objetivo de %s.", k.Name, k.Display, verb, k.TargetDisplay),
			RefKey:    "kpi_below_target:" + k.Key + ":" + dto.FormatDate(today),
			CreatedAt: a.now(),
		})
		if err != nil {
			return created, fmt.Errorf("alerts: kpi %s: %w", k.Key, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// InactiveClients avisa de los clientes Inativo. El RefKey incluye la última compra:
// un cliente que vuelve a comprar y cae de nuevo en inactividad se avisa otra vez.
func (a *Alerts) InactiveClients(ctx context.Context, companyID string, segments []dto.ClientSegmentDTO) (int, error) {
	created := 0
	for _, s := range segments {
		if s.Tag != string(core.TagInactive) {
			continue
		}
		since, msg := s.LastPurchaseAt, "Última compra em "+s.LastPurchaseAt+"."
		if since == "" {
			since, msg = "never", "Cliente registado sem nenhuma compra."
		}
		ok, err := a.notifications.Create(ctx, &entity.Notification{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Type:      entity.NotificationInactiveClient,
			Title:     "Cliente inativo",
			Message:   msg,
			RefKey:    "inactive_client:" + s.ClientID + ":" + since,
			CreatedAt: a.now(),
		})
		if err != nil {
			return created, fmt.Errorf("alerts: cliente %s: %w", s.ClientID, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}
