package finance

// Aggregate suma DocumentTotal de cada documento cuya fecha cae en window.
// Con window nil suma todos. Una colección vacía devuelve 0.
//
// Aggregate(A ∪ B) == Aggregate(A) + Aggregate(B) para A y B disjuntos, por lo
// que los totales compuestos (gasto = compras + gastos) se suman sin recalcular.
func Aggregate(docs []Document, window *DateRange) float64 {
	var total float64
	for _, doc := range docs {
		if window != nil && !window.Contains(doc.Date) {
			continue
		}
		total += DocumentTotal(doc)
	}
	return Sanitize(total)
}

// Snapshot agregado escalar de ventas, compras y gastos.
type Snapshot struct {
	TotalSales     float64
	TotalPurchases float64
	TotalExpenses  float64
	TotalSpent     float64 // TotalPurchases + TotalExpenses
	Profit         float64 // TotalSales - TotalSpent
	ProfitMargin   float64 // Profit / TotalSales * 100, 0 si no hay ventas
	ROI            float64 // Profit / TotalSpent * 100, 0 si no hay gasto
}

// NewSnapshot deriva los campos compuestos a partir de los tres totales.
func NewSnapshot(sales, purchases, expenses float64) Snapshot {
	sales, purchases, expenses = Sanitize(sales), Sanitize(purchases), Sanitize(expenses)
	spent := Sanitize(purchases + expenses)
	profit := Sanitize(sales - spent)

	s := Snapshot{
		TotalSales:     sales,
		TotalPurchases: purchases,
		TotalExpenses:  expenses,
		TotalSpent:     spent,
		Profit:         profit,
	}
	if sales > 0 {
		s.ProfitMargin = SafePercent(profit, sales)
	}
	if spent > 0 {
		s.ROI = SafePercent(profit, spent)
	}
	return s
}

// BuildSnapshot aplica Aggregate a cada fuente y construye el Snapshot.
func BuildSnapshot(sales, purchases, expenses []Document, window *DateRange) Snapshot {
	return NewSnapshot(
		Aggregate(sales, window),
		Aggregate(purchases, window),
		Aggregate(expenses, window),
	)
}

// Sanitized devuelve una copia con todos los campos finitos.
func (s Snapshot) Sanitized() Snapshot {
	return Snapshot{
		TotalSales:     Sanitize(s.TotalSales),
		TotalPurchases: Sanitize(s.TotalPurchases),
		TotalExpenses:  Sanitize(s.TotalExpenses),
		TotalSpent:     Sanitize(s.TotalSpent),
		Profit:         Sanitize(s.Profit),
		ProfitMargin:   Sanitize(s.ProfitMargin),
		ROI:            Sanitize(s.ROI),
	}
}

// AggregateMany suma Aggregate de varias colecciones sobre la misma ventana.
func AggregateMany(window *DateRange, sets ...[]Document) float64 {
	var total float64
	for _, docs := range sets {
		total += Aggregate(docs, window)
	}
	return Sanitize(total)
}
