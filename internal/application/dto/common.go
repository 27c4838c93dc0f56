package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// DateLayout formato de fechas de documentos en la API.
const DateLayout = "2006-01-02"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// DateRangeQuery ventana opcional de fechas (ambos extremos inclusivos).
type DateRangeQuery struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// DocumentListQuery filtros de listado de documentos.
type DocumentListQuery struct {
	Limit          int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset         int    `query:"offset" validate:"omitempty,min=0"`
	StartDate      string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IncludeDeleted bool   `query:"include_deleted"`
}

// Page paginación del listado con valores por defecto.
func (q DocumentListQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}

// Range ventana de fechas del listado.
func (q DocumentListQuery) Range() DateRangeQuery {
	return DateRangeQuery{StartDate: q.StartDate, EndDate: q.EndDate}
}

// WindowDTO ventana de fechas en respuestas.
type WindowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ErrorResponse cuerpo de error HTTP. Fields solo en errores de validación (campo → mensaje).
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ParseDate interpreta una fecha YYYY-MM-DD; cadena vacía devuelve la fecha cero.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// FormatDate fecha en DateLayout; vacío para la fecha cero.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

var openEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Window convierte la consulta en ventana del núcleo financiero.
// Sin fechas devuelve nil (todo el histórico); un extremo ausente queda abierto.
func (q DateRangeQuery) Window() (*finance.DateRange, error) {
	if q.StartDate == "" && q.EndDate == "" {
		return nil, nil
	}
	start, err := ParseDate(q.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", domain.ErrInvalidInput)
	}
	end, err := ParseDate(q.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", domain.ErrInvalidInput)
	}
	if end.IsZero() {
		end = openEnd
	}
	if !start.IsZero() && start.After(end) {
		return nil, fmt.Errorf("start_date posterior a end_date: %w", domain.ErrInvalidInput)
	}
	w := finance.NewDateRange(start, end)
	return &w, nil
}

// NewWindowDTO ventana para respuestas; nil si w es nil.
func NewWindowDTO(w *finance.DateRange) *WindowDTO {
	if w == nil {
		return nil
	}
	return &WindowDTO{Start: FormatDate(w.Start), End: FormatDate(w.End)}
}
