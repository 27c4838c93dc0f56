package finance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

func TestAlerts_KPIBelowTargetOncePerDay(t *testing.T) {
	notifications := &fakeNotifications{}
	a := NewAlerts(notifications)
	kpis := []dto.KPIResponse{
		{Key: "roi", Name: "ROI", Display: "10,00%", TargetDisplay: "20,00%", BelowTarget: true},
		{Key: "average_sale", Name: "Valor Médio de Venda", BelowTarget: false},
		{Key: "average_purchase", Name: "Valor Médio de Compra", Display: "600,00 €", TargetDisplay: "500,00 €", BelowTarget: true, IsInverse: true},
	}

	n, err := a.KPIBelowTarget(context.Background(), "c1", today, kpis)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, entity.NotificationKPIBelowTarget, notifications.created[0].Type)
	assert.Equal(t, "kpi_below_target:roi:2026-10-14", notifications.created[0].RefKey)
	assert.Contains(t, notifications.created[1].Message, "acima")

	n, err = a.KPIBelowTarget(context.Background(), "c1", today, kpis)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAlerts_InactiveClients(t *testing.T) {
	notifications := &fakeNotifications{}
	a := NewAlerts(notifications)

	n, err := a.InactiveClients(context.Background(), "c1", []dto.ClientSegmentDTO{
		{ClientID: "a", Tag: "Inativo", LastPurchaseAt: "2026-05-01"},
		{ClientID: "b", Tag: "Inativo"},
		{ClientID: "c", Tag: "Recorrente"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "inactive_client:a:2026-05-01", notifications.created[0].RefKey)
	assert.Equal(t, "inactive_client:b:never", notifications.created[1].RefKey)
}
