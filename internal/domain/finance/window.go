package finance

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange intervalo de fechas de calendario, inclusivo en ambos extremos.
// La hora del día se descarta antes de comparar: una venta de las 23:59 del
// último día pertenece a la ventana, una de las 00:00 del día siguiente no.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DateOf normaliza t a la medianoche UTC de su fecha de calendario (en la zona de t).
// Para agrupar por la zona del tenant, convertir antes con t.In(loc).
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDateRange construye el intervalo normalizado; si end < start los intercambia.
func NewDateRange(start, end time.Time) DateRange {
	s, e := DateOf(start), DateOf(end)
	if e.Before(s) {
		s, e = e, s
	}
	return DateRange{Start: s, End: e}
}

// Contains indica si la fecha de t cae en [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(r.Start)) && !d.After(DateOf(r.End))
}

// Days número de días de calendario cubiertos.
func (r DateRange) Days() int {
	return int(DateOf(r.End).Sub(DateOf(r.Start)).Hours()/24) + 1
}

// Overlaps indica si dos intervalos comparten al menos un día.
func (r DateRange) Overlaps(o DateRange) bool {
	return !DateOf(r.End).Before(DateOf(o.Start)) && !DateOf(o.End).Before(DateOf(r.Start))
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", DateOf(r.Start).Format(dateLayout), DateOf(r.End).Format(dateLayout))
}

// Last30Days = [hoy-29, hoy].
func Last30Days(today time.Time) DateRange {
	d := DateOf(today)
	return DateRange{Start: d.AddDate(0, 0, -29), End: d}
}

// Previous30Days = [hoy-59, hoy-30]; adyacente a Last30Days, sin solaparse.
func Previous30Days(today time.Time) DateRange {
	d := DateOf(today)
	return DateRange{Start: d.AddDate(0, 0, -59), End: d.AddDate(0, 0, -30)}
}

// MonthToDate = [día 1 del mes, hoy].
func MonthToDate(today time.Time) DateRange {
	d := DateOf(today)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: first, End: d}
}

// PreviousMonth = mes de calendario anterior completo.
func PreviousMonth(today time.Time) DateRange {
	d := DateOf(today)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: first.AddDate(0, -1, 0), End: first.AddDate(0, 0, -1)}
}
