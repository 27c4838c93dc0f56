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

// StockExitUseCase salidas no facturadas (quebra, uso interno, devolución). No afectan a las métricas.
type StockExitUseCase struct {
	deps  DocumentDeps
	exits repository.StockExitRepository
	now   func() time.Time
}

// NewStockExitUseCase construye el caso de uso.
func NewStockExitUseCase(deps DocumentDeps, exits repository.StockExitRepository) *StockExitUseCase {
	return &StockExitUseCase{deps: deps.withDefaults(), exits: exits, now: time.Now}
}

// Create registra la salida y descuenta el stock.
func (uc *StockExitUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateStockExitRequest) (*dto.StockExitResponse, error) {
	if !entity.ValidExitReason(in.Reason) {
		return nil, fmt.Errorf("reason: %w", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("items vacío: %w", domain.ErrInvalidInput)
	}
	ids := make([]string, 0, len(in.Items))
	items := make([]entity.StockExitItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("items[%d]: %w", i, domain.ErrInvalidInput)
		}
		ids = append(ids, it.ProductID)
		items = append(items, entity.StockExitItem{ID: uuid.New().String(), ProductID: it.ProductID, Quantity: it.Quantity})
	}
	date, err := parseDocumentDate(in.Date)
	if err != nil {
		return nil, err
	}
	if err := uc.deps.checkProducts(ctx, companyID, ids); err != nil {
		return nil, err
	}

	exit := &entity.StockExit{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Reason:    in.Reason,
		Date:      date,
		Notes:     in.Notes,
		Items:     items,
		CreatedBy: userID,
		CreatedAt: uc.now(),
	}
	err = uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.StockExits.Create(ctx, exit); err != nil {
			return err
		}
		return uc.deps.Stock.Dispatch(ctx, repos, companyID, inventory.ExitMovements(exit.Items))
	})
	if err != nil {
		return nil, err
	}
	return toStockExitResponse(exit), nil
}

// GetByID obtiene una salida (también eliminada).
func (uc *StockExitUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.StockExitResponse, error) {
	exit, err := notFoundIfNil(uc.exits.GetByID(ctx, companyID, id))
	if err != nil {
		return nil, err
	}
	return toStockExitResponse(exit), nil
}

// List salidas del tenant.
func (uc *StockExitUseCase) List(ctx context.Context, companyID string, q dto.DocumentListQuery) (*dto.StockExitListResponse, error) {
	filter, page, err := documentFilter(companyID, q)
	if err != nil {
		return nil, err
	}
	list, err := uc.exits.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockExitResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toStockExitResponse(e))
	}
	return &dto.StockExitListResponse{Items: out, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete borrado lógico: devuelve el stock retirado.
func (uc *StockExitUseCase) Delete(ctx context.Context, companyID, id, userID string) error {
	return uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		exit, err := notFoundIfNil(repos.StockExits.GetByID(ctx, companyID, id))
		if err != nil {
			return err
		}
		if exit.IsDeleted() {
			return domain.ErrAlreadyDeleted
		}
		if err := uc.deps.Stock.Restock(ctx, repos, companyID, inventory.ExitMovements(exit.Items)); err != nil {
			return err
		}
		return repos.StockExits.SoftDelete(ctx, companyID, id, userID, uc.now())
	})
}

// Restore deshace el borrado y vuelve a retirar el stock.
func (uc *StockExitUseCase) Restore(ctx context.Context, companyID, id string) (*dto.StockExitResponse, error) {
	var exit *entity.StockExit
	err := uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.StockExits.Restore(ctx, companyID, id); err != nil {
			return err
		}
		var err error
		exit, err = notFoundIfNil(repos.StockExits.GetByID(ctx, companyID, id))
		if err != nil {
			return err
		}
		return uc.deps.Stock.Dispatch(ctx, repos, companyID, inventory.ExitMovements(exit.Items))
	})
	if err != nil {
		return nil, err
	}
	return toStockExitResponse(exit), nil
}

func toStockExitResponse(e *entity.StockExit) *dto.StockExitResponse {
	items := make([]dto.StockExitItemResponse, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, dto.StockExitItemResponse{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &dto.StockExitResponse{
		ID:        e.ID,
		Reason:    e.Reason,
		Date:      dto.FormatDate(e.Date),
		Notes:     e.Notes,
		Items:     items,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
		DeletedAt: e.DeletedAt,
	}
}
