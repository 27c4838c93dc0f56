// Package finance contiene el núcleo de cálculo financiero: totalización de
// documentos, agregación por ventana de fechas, derivación de KPIs,
// segmentación de clientes y comparación entre períodos.
//
// Todas las funciones son puras y deterministas: no hacen I/O, no leen el
// reloj del sistema y no devuelven errores. Cualquier valor no finito
// (NaN, ±Inf) se degrada a 0 antes de operar, de modo que los resultados
// públicos siempre cumplen math.IsInf(x, 0) == false && !math.IsNaN(x).
package finance

import "math"

// Sanitize devuelve 0 si x es NaN o ±Inf; en otro caso devuelve x.
func Sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// SanitizePtr trata un puntero nil (campo ausente) como 0.
func SanitizePtr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return Sanitize(*p)
}

// SafeDiv divide num entre den. Devuelve 0 si den es 0 o si el resultado no es finito.
func SafeDiv(num, den float64) float64 {
	num, den = Sanitize(num), Sanitize(den)
	if den == 0 {
		return 0
	}
	return Sanitize(num / den)
}

// SafePercent es SafeDiv(num, den) * 100 con la misma política de ceros.
func SafePercent(num, den float64) float64 {
	return Sanitize(SafeDiv(num, den) * 100)
}

// Percent construye un porcentaje opcional (útil para descuentos).
func Percent(v float64) *float64 {
	return &v
}

func countValue(n int) float64 {
	if n < 0 {
		return 0
	}
	return float64(n)
}
