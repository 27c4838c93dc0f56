package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryResponse agregado de ventas, compras y gastos de una ventana (GET /api/finance/summary).
type SummaryResponse struct {
	Window         *WindowDTO      `json:"window,omitempty"` // nil = todo el histórico
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	Profit         decimal.Decimal `json:"profit"`
	ProfitMargin   decimal.Decimal `json:"profit_margin"` // %
	ROI            decimal.Decimal `json:"roi"`           // %
}

// KPIResponse indicador con su valor formateado.
type KPIResponse struct {
	Key           string          `json:"key"`
	Name          string          `json:"name"`
	Value         decimal.Decimal `json:"value"`
	Target        decimal.Decimal `json:"target"`
	Display       string          `json:"display"`        // ej: "1.234,56 €" o "25,00%"
	TargetDisplay string          `json:"target_display"`
	Unit          string          `json:"unit"`
	Description   string          `json:"description"`
	Formula       string          `json:"formula"`
	BelowTarget   bool            `json:"below_target"`
	IsInverse     bool            `json:"is_inverse"`
	IsPercentage  bool            `json:"is_percentage"`
}

// CountsDTO conteos usados como denominadores.
type CountsDTO struct {
	CompletedOrders int `json:"completed_orders"`
	Clients         int `json:"clients"`
	Suppliers       int `json:"suppliers"`
	SupplierEntries int `json:"supplier_entries"`
	Expenses        int `json:"expenses"`
}

// KPIListResponse los 8 KPIs, siempre en el mismo orden (GET /api/finance/kpis).
type KPIListResponse struct {
	Window *WindowDTO    `json:"window,omitempty"`
	Items  []KPIResponse `json:"items"`
	Counts CountsDTO     `json:"counts"`
}

// DeltaResponse comparación de un valor entre dos ventanas.
// PercentChange null = sin base (el valor anterior es 0).
type DeltaResponse struct {
	Label         string           `json:"label"`
	Current       decimal.Decimal  `json:"current"`
	Previous      decimal.Decimal  `json:"previous"`
	PercentChange *decimal.Decimal `json:"percent_change"`
}

// ComparisonGroup par de ventanas con sus deltas de ventas, gasto y lucro.
type ComparisonGroup struct {
	Label    string          `json:"label"` // last_30_days, month_to_date
	Current  WindowDTO       `json:"current"`
	Previous WindowDTO       `json:"previous"`
	Deltas   []DeltaResponse `json:"deltas"`
}

// ComparisonsResponse comparaciones temporales (GET /api/finance/comparisons).
type ComparisonsResponse struct {
	Today  string            `json:"today"`
	Groups []ComparisonGroup `json:"groups"`
}

// DashboardResponse resumen, KPIs y comparaciones en una sola carga; se cachea por tenant.
type DashboardResponse struct {
	Summary     SummaryResponse     `json:"summary"`
	KPIs        KPIListResponse     `json:"kpis"`
	Comparisons ComparisonsResponse `json:"comparisons"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// ClientSegmentDTO etiqueta de un cliente con los datos que la explican.
type ClientSegmentDTO struct {
	ClientID       string `json:"client_id"`
	Tag            string `json:"tag"`
	Purchases      int    `json:"purchases"`
	LastPurchaseAt string `json:"last_purchase_at,omitempty"`
	ClientSince    string `json:"client_since,omitempty"`
}

// SegmentationResponse etiquetas de todos los clientes (GET /api/finance/segments).
type SegmentationResponse struct {
	InactivityMonths int                `json:"inactivity_months"`
	Counts           map[string]int     `json:"counts"` // Novo, Recorrente, Inativo
	Clients          []ClientSegmentDTO `json:"clients"`
}
