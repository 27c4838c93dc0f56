package finance

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// DefaultLanguage formato numérico de los textos de KPI ("1.234,56 €").
var DefaultLanguage = language.BrazilianPortuguese

// Formatter textos de presentación de valores monetarios y porcentajes.
type Formatter struct {
	tag language.Tag
}

// NewFormatter construye el formateador para el idioma indicado.
func NewFormatter(tag language.Tag) Formatter {
	if tag == language.Und {
		tag = DefaultLanguage
	}
	return Formatter{tag: tag}
}

// Format v con dos decimales y la unidad del KPI.
func (f Formatter) Format(v float64, unit string) string {
	p := message.NewPrinter(f.tag)
	if unit == core.UnitPercent {
		return p.Sprintf("%.2f%%", core.Sanitize(v))
	}
	return p.Sprintf("%.2f %s", core.Sanitize(v), unit)
}

// money redondeo a 2 decimales en la frontera de salida.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(core.Sanitize(v)).Round(2)
}

func moneyPtr(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := money(*v)
	return &d
}
