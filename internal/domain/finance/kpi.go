package finance

// Claves estables de los KPIs (independientes del idioma de la etiqueta).
const (
	KeyROI                  = "roi"
	KeyProfitMargin         = "profit_margin"
	KeyConversionRate       = "conversion_rate"
	KeyAveragePurchase      = "average_purchase"
	KeyAverageSale          = "average_sale"
	KeyAverageProfitPerSale = "average_profit_per_sale"
	KeyTotalProfit          = "total_profit"
	KeyProfitPerClient      = "profit_per_client"
)

const (
	UnitCurrency = "€"
	UnitPercent  = "%"
)

// KPICount número de KPIs que devuelve DeriveKPIs, siempre en el mismo orden.
const KPICount = 8

// KPI métrica con objetivo y reglas de presentación.
// BelowTarget es value < target, o value > target si IsInverse (menor es mejor).
type KPI struct {
	Key          string
	Name         string
	Value        float64
	Target       float64
	Unit         string
	Description  string
	Formula      string
	BelowTarget  bool
	IsInverse    bool
	IsPercentage bool
}

// Counts conteos de soporte para los KPIs.
// El denominador de Valor Médio de Compra suma entradas de proveedor y gastos.
type Counts struct {
	CompletedOrders int
	Clients         int
	Suppliers       int
	SupplierEntries int
	Expenses        int
}

// Targets objetivos por KPI; se inyectan desde configuración.
type Targets struct {
	ROI                  float64
	ProfitMargin         float64
	ConversionRate       float64
	AveragePurchase      float64
	AverageSale          float64
	AverageProfitPerSale float64
	TotalProfit          float64
	ProfitPerClient      float64
}

// DefaultTargets objetivos por defecto cuando ni la configuración ni el tenant los definen.
func DefaultTargets() Targets {
	return Targets{
		ROI:                  20,
		ProfitMargin:         25,
		ConversionRate:       30,
		AveragePurchase:      500,
		AverageSale:          250,
		AverageProfitPerSale: 100,
		TotalProfit:          10000,
		ProfitPerClient:      150,
	}
}

// ByKey devuelve el objetivo de un KPI por su clave.
func (t Targets) ByKey(key string) (float64, bool) {
	switch key {
	case KeyROI:
		return t.ROI, true
	case KeyProfitMargin:
		return t.ProfitMargin, true
	case KeyConversionRate:
		return t.ConversionRate, true
	case KeyAveragePurchase:
		return t.AveragePurchase, true
	case KeyAverageSale:
		return t.AverageSale, true
	case KeyAverageProfitPerSale:
		return t.AverageProfitPerSale, true
	case KeyTotalProfit:
		return t.TotalProfit, true
	case KeyProfitPerClient:
		return t.ProfitPerClient, true
	}
	return 0, false
}

// TargetKeys claves de KPI en el orden de DeriveKPIs.
var TargetKeys = []string{
	KeyROI, KeyProfitMargin, KeyConversionRate, KeyAveragePurchase,
	KeyAverageSale, KeyAverageProfitPerSale, KeyTotalProfit, KeyProfitPerClient,
}

// Map objetivos como clave → valor.
func (t Targets) Map() map[string]float64 {
	out := make(map[string]float64, len(TargetKeys))
	for _, key := range TargetKeys {
		out[key], _ = t.ByKey(key)
	}
	return out
}

// WithOverrides reemplaza los objetivos presentes en overrides (clave → valor).
// Claves desconocidas o valores no finitos se ignoran.
func (t Targets) WithOverrides(overrides map[string]float64) Targets {
	for key, v := range overrides {
		if Sanitize(v) != v {
			continue
		}
		switch key {
		case KeyROI:
			t.ROI = v
		case KeyProfitMargin:
			t.ProfitMargin = v
		case KeyConversionRate:
			t.ConversionRate = v
		case KeyAveragePurchase:
			t.AveragePurchase = v
		case KeyAverageSale:
			t.AverageSale = v
		case KeyAverageProfitPerSale:
			t.AverageProfitPerSale = v
		case KeyTotalProfit:
			t.TotalProfit = v
		case KeyProfitPerClient:
			t.ProfitPerClient = v
		}
	}
	return t
}

func (t Targets) sanitized() Targets {
	return Targets{
		ROI:                  Sanitize(t.ROI),
		ProfitMargin:         Sanitize(t.ProfitMargin),
		ConversionRate:       Sanitize(t.ConversionRate),
		AveragePurchase:      Sanitize(t.AveragePurchase),
		AverageSale:          Sanitize(t.AverageSale),
		AverageProfitPerSale: Sanitize(t.AverageProfitPerSale),
		TotalProfit:          Sanitize(t.TotalProfit),
		ProfitPerClient:      Sanitize(t.ProfitPerClient),
	}
}

// DeriveKPIs devuelve los 8 KPIs en orden fijo:
// ROI, Margem de Lucro, Taxa de Conversão, Valor Médio de Compra,
// Valor Médio de Venda, Lucro Médio por Venda, Lucro Total, Lucro por Cliente.
// Denominador cero o operando no finito producen valor 0.
func DeriveKPIs(s Snapshot, c Counts, t Targets) []KPI {
	s = s.Sanitized()
	t = t.sanitized()

	orders := countValue(c.CompletedOrders)
	clients := countValue(c.Clients)
	purchaseDocs := countValue(c.SupplierEntries) + countValue(c.Expenses)

	kpis := []KPI{
		{
			Key:          KeyROI,
			Name:         "ROI",
			Value:        SafePercent(s.Profit, s.TotalSpent),
			Target:       t.ROI,
			Unit:         UnitPercent,
			IsPercentage: true,
			Description:  "Retorno sobre o investimento: quanto lucro cada euro gasto gerou.",
			Formula:      "Lucro / Total Gasto × 100",
		},
		{
			Key:          KeyProfitMargin,
			Name:         "Margem de Lucro",
			Value:        s.ProfitMargin,
			Target:       t.ProfitMargin,
			Unit:         UnitPercent,
			IsPercentage: true,
			Description:  "Percentagem das vendas que se converte em lucro.",
			Formula:      "Lucro / Total de Vendas × 100",
		},
		{
			Key:          KeyConversionRate,
			Name:         "Taxa de Conversão",
			Value:        SafePercent(orders, clients),
			Target:       t.ConversionRate,
			Unit:         UnitPercent,
			IsPercentage: true,
			Description:  "Relação entre encomendas concluídas e clientes registados.",
			Formula:      "Encomendas Concluídas / Clientes × 100",
		},
		{
			Key:         KeyAveragePurchase,
			Name:        "Valor Médio de Compra",
			Value:       SafeDiv(s.TotalSpent, purchaseDocs),
			Target:      t.AveragePurchase,
			Unit:        UnitCurrency,
			IsInverse:   true,
			Description: "Custo médio de cada entrada de stock ou despesa registada.",
			Formula:     "Total Gasto / (Entradas de Fornecedor + Despesas)",
		},
		{
			Key:         KeyAverageSale,
			Name:        "Valor Médio de Venda",
			Value:       SafeDiv(s.TotalSales, orders),
			Target:      t.AverageSale,
			Unit:        UnitCurrency,
			Description: "Valor médio faturado por encomenda concluída.",
			Formula:     "Total de Vendas / Encomendas Concluídas",
		},
		{
			Key:         KeyAverageProfitPerSale,
			Name:        "Lucro Médio por Venda",
			Value:       SafeDiv(s.Profit, orders),
			Target:      t.AverageProfitPerSale,
			Unit:        UnitCurrency,
			Description: "Lucro médio gerado por cada encomenda concluída.",
			Formula:     "Lucro / Encomendas Concluídas",
		},
		{
			Key:         KeyTotalProfit,
			Name:        "Lucro Total",
			Value:       s.Profit,
			Target:      t.TotalProfit,
			Unit:        UnitCurrency,
			Description: "Diferença entre o total de vendas e o total gasto no período.",
			Formula:     "Total de Vendas − (Compras + Despesas)",
		},
		{
			Key:         KeyProfitPerClient,
			Name:        "Lucro por Cliente",
			Value:       SafeDiv(s.Profit, clients),
			Target:      t.ProfitPerClient,
			Unit:        UnitCurrency,
			Description: "Lucro médio atribuível a cada cliente registado.",
			Formula:     "Lucro / Clientes",
		},
	}

	for i := range kpis {
		kpis[i].Value = Sanitize(kpis[i].Value)
		kpis[i].BelowTarget = isBelowTarget(kpis[i].Value, kpis[i].Target, kpis[i].IsInverse)
	}
	return kpis
}

func isBelowTarget(value, target float64, inverse bool) bool {
	if inverse {
		return value > target
	}
	return value < target
}
