package finance_test

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

func kpiByKey(t *testing.T, kpis []finance.KPI, key string) finance.KPI {
	t.Helper()
	for _, k := range kpis {
		if k.Key == key {
			return k
		}
	}
	t.Fatalf("KPI %q no encontrado", key)
	return finance.KPI{}
}

// randomField devuelve un valor no negativo o uno no finito.
func randomField(r *rand.Rand) float64 {
	switch r.Intn(6) {
	case 0:
		return math.NaN()
	case 1:
		return math.Inf(1)
	case 2:
		return math.Inf(-1)
	case 3:
		return 0
	default:
		return r.Float64() * 1e6
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Esquema
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveKPIs_EsquemaFijo(t *testing.T) {
	kpis := finance.DeriveKPIs(finance.Snapshot{}, finance.Counts{}, finance.DefaultTargets())
	require.Len(t, kpis, finance.KPICount)

	wantOrder := []string{
		"ROI", "Margem de Lucro", "Taxa de Conversão", "Valor Médio de Compra",
		"Valor Médio de Venda", "Lucro Médio por Venda", "Lucro Total", "Lucro por Cliente",
	}
	for i, k := range kpis {
		assert.Equal(t, wantOrder[i], k.Name)
		assert.NotEmpty(t, k.Key)
		assert.NotEmpty(t, k.Description, "%s sin descripción", k.Name)
		assert.NotEmpty(t, k.Formula, "%s sin fórmula", k.Name)
		assert.NotEmpty(t, k.Unit)
		assert.Equal(t, k.Unit == finance.UnitPercent, k.IsPercentage)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Valores conocidos
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveKPIs_ValoresConocidos(t *testing.T) {
	snapshot := finance.NewSnapshot(15000, 5000, 1000) // gasto 6000, lucro 9000
	snapshot.Profit = 4000                             // fijado para el vector de prueba de ROI
	counts := finance.Counts{CompletedOrders: 50, Clients: 200, SupplierEntries: 10, Expenses: 5}

	kpis := finance.DeriveKPIs(snapshot, counts, finance.DefaultTargets())

	assert.InDelta(t, 66.67, kpiByKey(t, kpis, finance.KeyROI).Value, 0.01)
	assert.InDelta(t, 25.0, kpiByKey(t, kpis, finance.KeyConversionRate).Value, eps)
	assert.InDelta(t, 300.0, kpiByKey(t, kpis, finance.KeyAverageSale).Value, eps)
	assert.InDelta(t, 400.0, kpiByKey(t, kpis, finance.KeyAveragePurchase).Value, eps)
	assert.InDelta(t, 80.0, kpiByKey(t, kpis, finance.KeyAverageProfitPerSale).Value, eps)
	assert.InDelta(t, 4000.0, kpiByKey(t, kpis, finance.KeyTotalProfit).Value, eps)
	assert.InDelta(t, 20.0, kpiByKey(t, kpis, finance.KeyProfitPerClient).Value, eps)
	assert.InDelta(t, snapshot.ProfitMargin, kpiByKey(t, kpis, finance.KeyProfitMargin).Value, eps)
}

func TestDeriveKPIs_DivisionPorCeroDaCero(t *testing.T) {
	snapshot := finance.NewSnapshot(1000, 0, 0)
	kpis := finance.DeriveKPIs(snapshot, finance.Counts{}, finance.DefaultTargets())

	for _, key := range []string{
		finance.KeyROI, finance.KeyConversionRate, finance.KeyAveragePurchase,
		finance.KeyAverageSale, finance.KeyAverageProfitPerSale, finance.KeyProfitPerClient,
	} {
		assert.Equal(t, 0.0, kpiByKey(t, kpis, key).Value, key)
	}
	assert.InDelta(t, 1000.0, kpiByKey(t, kpis, finance.KeyTotalProfit).Value, eps)
}

func TestDeriveKPIs_LucroNegativoEsFinito(t *testing.T) {
	kpis := finance.DeriveKPIs(finance.NewSnapshot(100, 400, 100), finance.Counts{CompletedOrders: 2, Clients: 4}, finance.DefaultTargets())
	assert.InDelta(t, -400.0, kpiByKey(t, kpis, finance.KeyTotalProfit).Value, eps)
	assert.InDelta(t, -80.0, kpiByKey(t, kpis, finance.KeyROI).Value, eps)
	assert.True(t, kpiByKey(t, kpis, finance.KeyTotalProfit).BelowTarget)
}

func TestDeriveKPIs_ConteosNegativosSeIgnoran(t *testing.T) {
	kpis := finance.DeriveKPIs(finance.NewSnapshot(100, 0, 0), finance.Counts{CompletedOrders: -3, Clients: -1}, finance.DefaultTargets())
	assert.Equal(t, 0.0, kpiByKey(t, kpis, finance.KeyAverageSale).Value)
	assert.Equal(t, 0.0, kpiByKey(t, kpis, finance.KeyConversionRate).Value)
}

// ──────────────────────────────────────────────────────────────────────────────
// Objetivos
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveKPIs_BelowTargetYKPIInverso(t *testing.T) {
	targets := finance.DefaultTargets()
	targets.TotalProfit = 10000
	targets.AveragePurchase = 500

	// Lucro 4000 < 10000 → abaixo do objetivo. Custo médio 6000/10 = 600 > 500 → abaixo (inverso).
	kpis := finance.DeriveKPIs(finance.NewSnapshot(10000, 6000, 0), finance.Counts{SupplierEntries: 10}, targets)
	assert.True(t, kpiByKey(t, kpis, finance.KeyTotalProfit).BelowTarget)

	avgPurchase := kpiByKey(t, kpis, finance.KeyAveragePurchase)
	assert.True(t, avgPurchase.IsInverse)
	assert.True(t, avgPurchase.BelowTarget)

	// Custo médio 6000/20 = 300 < 500 → cumpre o objetivo.
	kpis = finance.DeriveKPIs(finance.NewSnapshot(10000, 6000, 0), finance.Counts{SupplierEntries: 20}, targets)
	assert.False(t, kpiByKey(t, kpis, finance.KeyAveragePurchase).BelowTarget)
}

func TestTargets_WithOverrides(t *testing.T) {
	base := finance.DefaultTargets()
	got := base.WithOverrides(map[string]float64{
		finance.KeyTotalProfit: 25000,
		"desconocido":          1,
		finance.KeyROI:         math.NaN(),
	})
	assert.Equal(t, 25000.0, got.TotalProfit)
	assert.Equal(t, base.ROI, got.ROI, "un override NaN se descarta")

	v, ok := got.ByKey(finance.KeyTotalProfit)
	assert.True(t, ok)
	assert.Equal(t, 25000.0, v)
	_, ok = got.ByKey("desconocido")
	assert.False(t, ok)
}

func TestTargets_Map(t *testing.T) {
	m := finance.DefaultTargets().Map()
	require.Len(t, m, finance.KPICount)
	assert.Equal(t, 500.0, m[finance.KeyAveragePurchase])
	assert.Equal(t, 20.0, m[finance.KeyROI])
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad: todo valor es finito y >= 0 para entradas no negativas o no finitas
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveKPIs_FinitudPropiedad(t *testing.T) {
	const workers = 8
	const perWorker = 2000

	var wg sync.WaitGroup
	failures := make(chan string, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < perWorker; i++ {
				s := finance.Snapshot{
					TotalSales:     randomField(r),
					TotalPurchases: randomField(r),
					TotalExpenses:  randomField(r),
					TotalSpent:     randomField(r),
					Profit:         randomField(r),
					ProfitMargin:   randomField(r),
					ROI:            randomField(r),
				}
				c := finance.Counts{
					CompletedOrders: r.Intn(3),
					Clients:         r.Intn(3),
					SupplierEntries: r.Intn(3),
					Expenses:        r.Intn(3),
				}
				targets := finance.Targets{TotalProfit: randomField(r), ROI: randomField(r)}
				for _, k := range finance.DeriveKPIs(s, c, targets) {
					if math.IsNaN(k.Value) || math.IsInf(k.Value, 0) || k.Value < 0 {
						failures <- k.Name
						return
					}
				}
			}
		}(int64(w + 1))
	}
	wg.Wait()
	close(failures)

	for name := range failures {
		t.Errorf("KPI %s produjo un valor no finito o negativo", name)
	}
}
