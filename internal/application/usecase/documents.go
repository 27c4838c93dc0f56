package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/finance"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// DocumentDeps dependencias comunes de los casos de uso de documentos.
type DocumentDeps struct {
	Tx          inventory.TxRunner
	Stock       *inventory.StockService
	Products    repository.ProductRepository
	Invalidator finance.Invalidator
	Logger      *logger.Logger
}

func (d DocumentDeps) withDefaults() DocumentDeps {
	if d.Stock == nil {
		d.Stock = inventory.NewStockService()
	}
	if d.Invalidator == nil {
		d.Invalidator = finance.NopInvalidator{}
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	return d
}

// invalidate avisa del cambio financiero; la escritura ya está confirmada, un fallo solo se registra.
func (d DocumentDeps) invalidate(ctx context.Context, companyID string) {
	if err := d.Invalidator.Invalidate(ctx, companyID); err != nil {
		d.Logger.Warn().Err(err).Str("company_id", companyID).Msg("invalidación financiera fallida")
	}
}

// checkProducts comprueba que los productos referenciados existen en el tenant.
func (d DocumentDeps) checkProducts(ctx context.Context, companyID string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		p, err := d.Products.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

// ──── Validación ────────────────────────────────────────────────────────────

func validDiscount(d *decimal.Decimal) bool {
	return d == nil || (!d.IsNegative() && !d.GreaterThan(hundred))
}

// validateItems reglas numéricas que el validador de tags no cubre.
func validateItems(discount *decimal.Decimal, items []dto.DocumentItemRequest) error {
	if !validDiscount(discount) {
		return fmt.Errorf("discount_percent fuera de [0,100]: %w", domain.ErrInvalidInput)
	}
	if len(items) == 0 {
		return fmt.Errorf("items vacío: %w", domain.ErrInvalidInput)
	}
	for i, it := range items {
		switch {
		case !it.Quantity.IsPositive():
			return fmt.Errorf("items[%d].quantity debe ser > 0: %w", i, domain.ErrInvalidInput)
		case it.UnitPrice.IsNegative():
			return fmt.Errorf("items[%d].unit_price negativo: %w", i, domain.ErrInvalidInput)
		case !validDiscount(it.DiscountPercent):
			return fmt.Errorf("items[%d].discount_percent fuera de [0,100]: %w", i, domain.ErrInvalidInput)
		case it.ProductID == "" && it.Description == "":
			return fmt.Errorf("items[%d] sin producto ni descripción: %w", i, domain.ErrInvalidInput)
		}
	}
	return nil
}

func parseDocumentDate(s string) (time.Time, error) {
	d, err := dto.ParseDate(s)
	if err != nil || d.IsZero() {
		return time.Time{}, fmt.Errorf("date: %w", domain.ErrInvalidInput)
	}
	return d, nil
}

func toDocumentItems(items []dto.DocumentItemRequest) []entity.DocumentItem {
	out := make([]entity.DocumentItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.DocumentItem{
			ID:              uuid.New().String(),
			ProductID:       it.ProductID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
		})
	}
	return out
}

func productIDs(items []dto.DocumentItemRequest) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func toItemResponses(items []entity.DocumentItem) []dto.DocumentItemResponse {
	out := make([]dto.DocumentItemResponse, 0, len(items))
	for _, it := range items {
		line := core.LineTotal(core.LineItem{
			Quantity:        it.Quantity.InexactFloat64(),
			UnitPrice:       it.UnitPrice.InexactFloat64(),
			DiscountPercent: decimalToFloatPtr(it.DiscountPercent),
		})
		out = append(out, dto.DocumentItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           decimal.NewFromFloat(line).Round(2),
		})
	}
	return out
}

func decimalToFloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	return core.Percent(d.InexactFloat64())
}

// documentFilter convierte la consulta HTTP en filtro de repositorio.
func documentFilter(companyID string, q dto.DocumentListQuery) (repository.DocumentFilter, dto.PageRequest, error) {
	window, err := q.Range().Window()
	if err != nil {
		return repository.DocumentFilter{}, dto.PageRequest{}, err
	}
	page := q.Page()
	return repository.DocumentFilter{
		CompanyID:      companyID,
		Window:         window,
		IncludeDeleted: q.IncludeDeleted,
		Limit:          page.Limit,
		Offset:         page.Offset,
	}, page, nil
}

// notFoundIfNil traduce el (nil, nil) de los repositorios.
func notFoundIfNil[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}
