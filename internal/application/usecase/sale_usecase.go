package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// SaleUseCase registro y ciclo de vida de ventas.
// Una venta completed descuenta stock y entra en las métricas; pending y cancelled no.
type SaleUseCase struct {
	deps    DocumentDeps
	sales   repository.SaleRepository
	clients repository.ClientRepository
	now     func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(deps DocumentDeps, sales repository.SaleRepository, clients repository.ClientRepository) *SaleUseCase {
	return &SaleUseCase{deps: deps.withDefaults(), sales: sales, clients: clients, now: time.Now}
}

// Create registra la venta; con in.Complete descuenta stock en la misma transacción.
func (uc *SaleUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validateItems(in.DiscountPercent, in.Items); err != nil {
		return nil, err
	}
	date, err := parseDocumentDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.ClientID != "" {
		if _, err := notFoundIfNil(uc.clients.GetByID(ctx, companyID, in.ClientID)); err != nil {
			return nil, fmt.Errorf("cliente: %w", err)
		}
	}
	if err := uc.deps.checkProducts(ctx, companyID, productIDs(in.Items)); err != nil {
		return nil, err
	}

	now := uc.now()
	status := entity.SaleStatusPending
	if in.Complete {
		status = entity.SaleStatusCompleted
	}
	sale := &entity.Sale{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		ClientID:        in.ClientID,
		Number:          in.Number,
		Status:          status,
		Date:            date,
		DiscountPercent: in.DiscountPercent,
		Notes:           in.Notes,
		Items:           toDocumentItems(in.Items),
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if sale.AffectsStock() {
			return uc.deps.Stock.Dispatch(ctx, repos, companyID, inventory.SaleMovements(sale.Items))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sale.AffectsStock() {
		uc.deps.invalidate(ctx, companyID)
	}
	return toSaleResponse(sale), nil
}

// GetByID obtiene una venta (también eliminada).
func (uc *SaleUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, err := notFoundIfNil(uc.sales.GetByID(ctx, companyID, id))
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// List ventas del tenant con filtros de fecha, borrado y página.
func (uc *SaleUseCase) List(ctx context.Context, companyID string, q dto.DocumentListQuery) (*dto.SaleListResponse, error) {
	filter, page, err := documentFilter(companyID, q)
	if err != nil {
		return nil, err
	}
	list, err := uc.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Complete pasa una venta pending a completed y descuenta su stock.
func (uc *SaleUseCase) Complete(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	return uc.transition(ctx, companyID, id, func(repos inventory.TxRepos, sale *entity.Sale) error {
		if sale.Status != entity.SaleStatusPending {
			return fmt.Errorf("venta %s: %w", sale.Status, domain.ErrConflict)
		}
		if err := uc.deps.Stock.Dispatch(ctx, repos, companyID, inventory.SaleMovements(sale.Items)); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusCompleted
		return nil
	})
}

// Cancel anula la venta; si estaba completed devuelve el stock y deja de contar en las métricas.
func (uc *SaleUseCase) Cancel(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	return uc.transition(ctx, companyID, id, func(repos inventory.TxRepos, sale *entity.Sale) error {
		switch sale.Status {
		case entity.SaleStatusCancelled:
			return fmt.Errorf("venta ya cancelada: %w", domain.ErrConflict)
		case entity.SaleStatusCompleted:
			if err := uc.deps.Stock.Restock(ctx, repos, companyID, inventory.SaleMovements(sale.Items)); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusCancelled
		return nil
	})
}

// transition cambia el estado dentro de una tx; las ventas eliminadas no cambian de estado.
func (uc *SaleUseCase) transition(ctx context.Context, companyID, id string, apply func(inventory.TxRepos, *entity.Sale) error) (*dto.SaleResponse, error) {
	var (
		sale    *entity.Sale
		touched bool
	)
	err := uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		sale, err = notFoundIfNil(repos.Sales.GetByID(ctx, companyID, id))
		if err != nil {
			return err
		}
		if sale.IsDeleted() {
			return domain.ErrAlreadyDeleted
		}
		before := sale.Status
		if err := apply(repos, sale); err != nil {
			return err
		}
		touched = before == entity.SaleStatusCompleted || sale.Status == entity.SaleStatusCompleted
		sale.UpdatedAt = uc.now()
		return repos.Sales.UpdateStatus(ctx, companyID, id, sale.Status)
	})
	if err != nil {
		return nil, err
	}
	if touched {
		uc.deps.invalidate(ctx, companyID)
	}
	return toSaleResponse(sale), nil
}

// Delete borrado lógico; una venta completed devuelve su stock.
func (uc *SaleUseCase) Delete(ctx context.Context, companyID, id, userID string) error {
	var completed bool
	err := uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		sale, err := notFoundIfNil(repos.Sales.GetByID(ctx, companyID, id))
		if err != nil {
			return err
		}
		if sale.IsDeleted() {
			return domain.ErrAlreadyDeleted
		}
		completed = sale.AffectsStock()
		if completed {
			if err := uc.deps.Stock.Restock(ctx, repos, companyID, inventory.SaleMovements(sale.Items)); err != nil {
				return err
			}
		}
		return repos.Sales.SoftDelete(ctx, companyID, id, userID, uc.now())
	})
	if err != nil {
		return err
	}
	if completed {
		uc.deps.invalidate(ctx, companyID)
	}
	return nil
}

// Restore deshace el borrado; una venta completed vuelve a descontar stock.
func (uc *SaleUseCase) Restore(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.Sales.Restore(ctx, companyID, id); err != nil {
			return err
		}
		var err error
		sale, err = notFoundIfNil(repos.Sales.GetByID(ctx, companyID, id))
		if err != nil {
			return err
		}
		if sale.AffectsStock() {
			return uc.deps.Stock.Dispatch(ctx, repos, companyID, inventory.SaleMovements(sale.Items))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sale.AffectsStock() {
		uc.deps.invalidate(ctx, companyID)
	}
	return toSaleResponse(sale), nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:              s.ID,
		ClientID:        s.ClientID,
		Number:          s.Number,
		Status:          s.Status,
		Date:            dto.FormatDate(s.Date),
		DiscountPercent: s.DiscountPercent,
		Notes:           s.Notes,
		Items:           toItemResponses(s.Items),
		Total:           s.Total(),
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
		DeletedAt:       s.DeletedAt,
	}
}
