package finance

import "time"

// LineItem una línea de producto/servicio dentro de un documento.
// DiscountPercent nil equivale a 0. El rango [0,100] lo valida el llamador.
type LineItem struct {
	Quantity        float64
	UnitPrice       float64
	DiscountPercent *float64
}

// DocumentKind tipo de documento financiero.
type DocumentKind string

const (
	KindSale     DocumentKind = "sale"
	KindPurchase DocumentKind = "purchase"
	KindExpense  DocumentKind = "expense"
)

// Document una venta, compra (entrada de stock) o gasto.
// DiscountPercent es el descuento global, aplicado DESPUÉS de sumar las líneas.
type Document struct {
	ID              string
	Kind            DocumentKind
	Items           []LineItem
	DiscountPercent *float64
	Date            time.Time
}

// LineTotal = quantity * unitPrice * (1 - discountPercent/100).
func LineTotal(item LineItem) float64 {
	qty := Sanitize(item.Quantity)
	price := Sanitize(item.UnitPrice)
	discount := SanitizePtr(item.DiscountPercent)
	return Sanitize(qty * price * (1 - discount/100))
}

// DocumentTotal suma las líneas (cada una con su descuento) y aplica una sola vez
// el descuento global sobre la suma. El orden no es intercambiable:
// línea 100 con 10% y global 10% da 90 * 0.9 = 81, no 100 * 0.81 por redistribución.
func DocumentTotal(doc Document) float64 {
	var sum float64
	for _, item := range doc.Items {
		sum += LineTotal(item)
	}
	sum = Sanitize(sum)
	return Sanitize(sum * (1 - SanitizePtr(doc.DiscountPercent)/100))
}
