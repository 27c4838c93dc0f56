package finance

// PercentChange = (current - previous) / previous * 100.
// Devuelve nil cuando previous es 0: "sin base de comparación", distinto de un 0% real.
func PercentChange(current, previous float64) *float64 {
	current, previous = Sanitize(current), Sanitize(previous)
	if previous == 0 {
		return nil
	}
	v := Sanitize((current - previous) / previous * 100)
	return &v
}

// Delta comparación etiquetada entre dos escalares de ventanas disjuntas.
type Delta struct {
	Label         string
	Current       float64
	Previous      float64
	PercentChange *float64
}

// CompareWindows construye un Delta a partir de dos valores ya agregados.
func CompareWindows(label string, current, previous float64) Delta {
	return Delta{
		Label:         label,
		Current:       Sanitize(current),
		Previous:      Sanitize(previous),
		PercentChange: PercentChange(current, previous),
	}
}
