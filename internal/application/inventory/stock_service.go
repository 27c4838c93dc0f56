package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/inventory"
)

var hundred = decimal.NewFromInt(100)

// Movement efecto de una línea de documento sobre el stock de un producto.
type Movement struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal // solo en entradas
}

// StockService aplica el efecto de los documentos sobre el stock.
// Siempre opera con los repos de una tx abierta por TxRunner y bloquea cada fila con GetForUpdate.
type StockService struct {
	now func() time.Time
}

// NewStockService construye el servicio.
func NewStockService() *StockService {
	return &StockService{now: time.Now}
}

// Receive suma stock y recalcula el costo promedio ponderado (entrada de stock o restauración).
func (s *StockService) Receive(ctx context.Context, repos TxRepos, companyID string, moves []Movement) error {
	return s.apply(ctx, repos, companyID, moves, func(p inventory.Position, m Movement) (inventory.Position, error) {
		return inventory.ApplyEntry(p, m.Quantity, m.UnitCost)
	})
}

// Unreceive deshace una entrada. ErrInsufficientStock si la mercancía ya salió.
func (s *StockService) Unreceive(ctx context.Context, repos TxRepos, companyID string, moves []Movement) error {
	return s.apply(ctx, repos, companyID, moves, func(p inventory.Position, m Movement) (inventory.Position, error) {
		return inventory.RevertEntry(p, m.Quantity)
	})
}

// Dispatch resta stock (venta completada o salida). ErrInsufficientStock si quedaría negativo.
func (s *StockService) Dispatch(ctx context.Context, repos TxRepos, companyID string, moves []Movement) error {
	return s.apply(ctx, repos, companyID, moves, func(p inventory.Position, m Movement) (inventory.Position, error) {
		return inventory.ApplyExit(p, m.Quantity)
	})
}

// Restock devuelve al stock lo que un Dispatch retiró.
func (s *StockService) Restock(ctx context.Context, repos TxRepos, companyID string, moves []Movement) error {
	return s.apply(ctx, repos, companyID, moves, func(p inventory.Position, m Movement) (inventory.Position, error) {
		return inventory.RevertExit(p, m.Quantity)
	})
}

type positionFn func(inventory.Position, Movement) (inventory.Position, error)

// apply procesa los movimientos ordenados por producto para que dos tx concurrentes bloqueen filas en el mismo orden.
func (s *StockService) apply(ctx context.Context, repos TxRepos, companyID string, moves []Movement, fn positionFn) error {
	sorted := make([]Movement, len(moves))
	copy(sorted, moves)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	for _, m := range sorted {
		product, err := repos.Products.GetForUpdate(ctx, companyID, m.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", m.ProductID, domain.ErrNotFound)
		}
		before := product.Stock
		next, err := fn(inventory.Position{Stock: product.Stock, Cost: product.Cost}, m)
		if err != nil {
			return fmt.Errorf("producto %s: %w", product.SKU, err)
		}
		if err := repos.Products.UpdateStock(ctx, product.ID, next.Stock, next.Cost); err != nil {
			return err
		}
		if inventory.CrossedBelow(before, next.Stock, product.MinStock) {
			if err := s.notifyLowStock(ctx, repos, product, next.Stock); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *StockService) notifyLowStock(ctx context.Context, repos TxRepos, p *entity.Product, stock decimal.Decimal) error {
	now := s.now()
	_, err := repos.Notifications.Create(ctx, &entity.Notification{
		ID:        uuid.New().String(),
		CompanyID: p.CompanyID,
		Type:      entity.NotificationLowStock,
		Title:     "Stock baixo: " + p.Name,
		Message:   fmt.Sprintf("%s (%s) tem %s unidades; mínimo %s.", p.Name, p.SKU, stock.String(), p.MinStock.String()),
		RefKey:    "low_stock:" + p.ID + ":" + now.Format("2006-01-02"),
		CreatedAt: now,
	})
	return err
}

// SaleMovements líneas de la venta con producto asociado.
func SaleMovements(items []entity.DocumentItem) []Movement {
	moves := make([]Movement, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || !it.Quantity.IsPositive() {
			continue
		}
		moves = append(moves, Movement{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return moves
}

// EntryMovements líneas de la entrada con su costo unitario efectivo (descuento de línea y global aplicados).
func EntryMovements(e *entity.StockEntry) []Movement {
	global := decimal.NewFromInt(1)
	if e.DiscountPercent != nil {
		global = hundred.Sub(*e.DiscountPercent).Div(hundred)
	}
	moves := make([]Movement, 0, len(e.Items))
	for _, it := range e.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() {
			continue
		}
		cost := it.UnitPrice
		if it.DiscountPercent != nil {
			cost = cost.Mul(hundred.Sub(*it.DiscountPercent)).Div(hundred)
		}
		moves = append(moves, Movement{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  cost.Mul(global).Round(4),
		})
	}
	return moves
}

// ExitMovements líneas de una salida de stock.
func ExitMovements(items []entity.StockExitItem) []Movement {
	moves := make([]Movement, 0, len(items))
	for _, it := range items {
		moves = append(moves, Movement{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return moves
}
