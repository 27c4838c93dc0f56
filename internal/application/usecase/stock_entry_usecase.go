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

// StockEntryUseCase entradas de mercancía: suman stock, recalculan el costo promedio y cuentan como compra.
type StockEntryUseCase struct {
	deps      DocumentDeps
	entries   repository.StockEntryRepository
	suppliers repository.SupplierRepository
	now       func() time.Time
}

// NewStockEntryUseCase construye el caso de uso.
func NewStockEntryUseCase(deps DocumentDeps, entries repository.StockEntryRepository, suppliers repository.SupplierRepository) *StockEntryUseCase {
	return &StockEntryUseCase{deps: deps.withDefaults(), entries: entries, suppliers: suppliers, now: time.Now}
}

// Create registra la entrada y aplica su efecto en stock en una sola transacción.
func (uc *StockEntryUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateStockEntryRequest) (*dto.StockEntryResponse, error) {
	if err := validateItems(in.DiscountPercent, in.Items); err != nil {
		return nil, err
	}
	date, err := parseDocumentDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.SupplierID != "" {
		if _, err := notFoundIfNil(uc.suppliers.GetByID(ctx, companyID, in.SupplierID)); err != nil {
			return nil, fmt.Errorf("fornecedor: %w", err)
		}
	}
	if err := uc.deps.checkProducts(ctx, companyID, productIDs(in.Items)); err != nil {
		return nil, err
	}

	now := uc.now()
	entry := &entity.StockEntry{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		SupplierID:      in.SupplierID,
		Reference:       in.Reference,
		Date:            date,
		DiscountPercent: in.DiscountPercent,
		Notes:           in.Notes,
		Items:           toDocumentItems(in.Items),
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.StockEntries.Create(ctx, entry); err != nil {
			return err
		}
		return uc.deps.Stock.Receive(ctx, repos, companyID, inventory.EntryMovements(entry))
	})
	if err != nil {
		return nil, err
	}
	uc.deps.invalidate(ctx, companyID)
	return toStockEntryResponse(entry), nil
}

// GetByID obtiene una entrada (también eliminada).
func (uc *StockEntryUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.StockEntryResponse, error) {
	entry, err := notFoundIfNil(uc.entries.GetByID(ctx, companyID, id))
	if err != nil {
		return nil, err
	}
	return toStockEntryResponse(entry), nil
}

// List entradas del tenant.
func (uc *StockEntryUseCase) List(ctx context.Context, companyID string, q dto.DocumentListQuery) (*dto.StockEntryListResponse, error) {
	filter, page, err := documentFilter(companyID, q)
	if err != nil {
		return nil, err
	}
	list, err := uc.entries.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toStockEntryResponse(e))
	}
	return &dto.StockEntryListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete borrado lógico: retira del stock lo recibido. ErrInsufficientStock si ya se vendió.
func (uc *StockEntryUseCase) Delete(ctx context.Context, companyID, id, userID string) error {
	err := uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		entry, err := notFoundIfNil(repos.StockEntries.GetByID(ctx, companyID, id))
		if err != nil {
			return err
		}
		if entry.IsDeleted() {
			return domain.ErrAlreadyDeleted
		}
		if err := uc.deps.Stock.Unreceive(ctx, repos, companyID, inventory.EntryMovements(entry)); err != nil {
			return err
		}
		return repos.StockEntries.SoftDelete(ctx, companyID, id, userID, uc.now())
	})
	if err != nil {
		return err
	}
	uc.deps.invalidate(ctx, companyID)
	return nil
}

// Restore deshace el borrado y vuelve a sumar el stock.
func (uc *StockEntryUseCase) Restore(ctx context.Context, companyID, id string) (*dto.StockEntryResponse, error) {
	var entry *entity.StockEntry
	err := uc.deps.Tx.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.StockEntries.Restore(ctx, companyID, id); err != nil {
			return err
		}
		var err error
		entry, err = notFoundIfNil(repos.StockEntries.GetByID(ctx, companyID, id))
		if err != nil {
			return err
		}
		return uc.deps.Stock.Receive(ctx, repos, companyID, inventory.EntryMovements(entry))
	})
	if err != nil {
		return nil, err
	}
	uc.deps.invalidate(ctx, companyID)
	return toStockEntryResponse(entry), nil
}

func toStockEntryResponse(e *entity.StockEntry) *dto.StockEntryResponse {
	return &dto.StockEntryResponse{
		ID:              e.ID,
		SupplierID:      e.SupplierID,
		Reference:       e.Reference,
		Date:            dto.FormatDate(e.Date),
		DiscountPercent: e.DiscountPercent,
		Notes:           e.Notes,
		Items:           toItemResponses(e.Items),
		Total:           e.Total(),
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		DeletedAt:       e.DeletedAt,
	}
}
