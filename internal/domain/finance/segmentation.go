package finance

import "time"

// ClientTag clasificación derivada del ciclo de vida del cliente (no se persiste).
type ClientTag string

const (
	TagNew       ClientTag = "Novo"
	TagRecurring ClientTag = "Recorrente"
	TagInactive  ClientTag = "Inativo"
)

// DefaultInactivityMonths umbral por defecto para considerar inactivo a un cliente.
const DefaultInactivityMonths = 3

// SegmentationConfig InactivityMonths < 1 se trata como DefaultInactivityMonths.
type SegmentationConfig struct {
	InactivityMonths int
}

func (c SegmentationConfig) threshold() int {
	if c.InactivityMonths < 1 {
		return DefaultInactivityMonths
	}
	return c.InactivityMonths
}

// ClientHistory fecha de alta del cliente y fechas de sus compras (los montos no importan).
type ClientHistory struct {
	CreatedAt     time.Time
	PurchaseDates []time.Time
}

// HistoryFromDocuments construye el historial a partir de los documentos de venta del cliente.
func HistoryFromDocuments(createdAt time.Time, docs []Document) ClientHistory {
	h := ClientHistory{CreatedAt: createdAt, PurchaseDates: make([]time.Time, 0, len(docs))}
	for _, d := range docs {
		h.PurchaseDates = append(h.PurchaseDates, d.Date)
	}
	return h
}

// SegmentClient aplica las reglas en orden de precedencia:
//  1. sin compras y antigüedad >= umbral          → Inativo
//  2. sin compras y antigüedad < umbral           → Novo
//  3. meses desde la última compra >= umbral      → Inativo (la recencia manda sobre la frecuencia)
//  4. reciente y exactamente una compra           → Novo
//  5. reciente y más de una compra                → Recorrente
func SegmentClient(h ClientHistory, now time.Time, cfg SegmentationConfig) ClientTag {
	threshold := cfg.threshold()

	if len(h.PurchaseDates) == 0 {
		if MonthsBetween(h.CreatedAt, now) >= threshold {
			return TagInactive
		}
		return TagNew
	}

	if MonthsBetween(latest(h.PurchaseDates), now) >= threshold {
		return TagInactive
	}
	if len(h.PurchaseDates) == 1 {
		return TagNew
	}
	return TagRecurring
}

// SegmentClients etiqueta un conjunto de clientes (clave = ID del cliente).
func SegmentClients(histories map[string]ClientHistory, now time.Time, cfg SegmentationConfig) map[string]ClientTag {
	out := make(map[string]ClientTag, len(histories))
	for id, h := range histories {
		out[id] = SegmentClient(h, now, cfg)
	}
	return out
}

// TagCounts cuenta clientes por etiqueta; las tres etiquetas siempre están presentes.
func TagCounts(tags map[string]ClientTag) map[ClientTag]int {
	counts := map[ClientTag]int{TagNew: 0, TagRecurring: 0, TagInactive: 0}
	for _, tag := range tags {
		counts[tag]++
	}
	return counts
}

// MonthsBetween meses de calendario completos transcurridos de from a to.
// 31/01 → 28/02 es 0 meses; 14/05 → 14/10 son 5. Nunca negativo.
func MonthsBetween(from, to time.Time) int {
	f, t := DateOf(from), DateOf(to)
	if t.Before(f) {
		return 0
	}
	months := (t.Year()-f.Year())*12 + int(t.Month()) - int(f.Month())
	if t.Day() < f.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func latest(dates []time.Time) time.Time {
	var last time.Time
	for i, d := range dates {
		if i == 0 || d.After(last) {
			last = d
		}
	}
	return last
}
