package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// ExpenseUseCase despesas operativas. No mueven stock; cuentan en el gasto total.
type ExpenseUseCase struct {
	deps      DocumentDeps
	expenses  repository.ExpenseRepository
	suppliers repository.SupplierRepository
	now       func() time.Time
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(deps DocumentDeps, expenses repository.ExpenseRepository, suppliers repository.SupplierRepository) *ExpenseUseCase {
	return &ExpenseUseCase{deps: deps.withDefaults(), expenses: expenses, suppliers: suppliers, now: time.Now}
}

// Create registra la despesa.
func (uc *ExpenseUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
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
	now := uc.now()
	expense := &entity.Expense{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		SupplierID:      in.SupplierID,
		Category:        in.Category,
		Description:     in.Description,
		Date:            date,
		DiscountPercent: in.DiscountPercent,
		Items:           toDocumentItems(in.Items),
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	uc.deps.invalidate(ctx, companyID)
	return toExpenseResponse(expense), nil
}

// GetByID obtiene una despesa (también eliminada).
func (uc *ExpenseUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ExpenseResponse, error) {
	expense, err := notFoundIfNil(uc.expenses.GetByID(ctx, companyID, id))
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// List despesas del tenant.
func (uc *ExpenseUseCase) List(ctx context.Context, companyID string, q dto.DocumentListQuery) (*dto.ExpenseListResponse, error) {
	filter, page, err := documentFilter(companyID, q)
	if err != nil {
		return nil, err
	}
	list, err := uc.expenses.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toExpenseResponse(e))
	}
	return &dto.ExpenseListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete borrado lógico.
func (uc *ExpenseUseCase) Delete(ctx context.Context, companyID, id, userID string) error {
	if err := uc.expenses.SoftDelete(ctx, companyID, id, userID, uc.now()); err != nil {
		return err
	}
	uc.deps.invalidate(ctx, companyID)
	return nil
}

// Restore deshace el borrado.
func (uc *ExpenseUseCase) Restore(ctx context.Context, companyID, id string) (*dto.ExpenseResponse, error) {
	if err := uc.expenses.Restore(ctx, companyID, id); err != nil {
		return nil, err
	}
	uc.deps.invalidate(ctx, companyID)
	return uc.GetByID(ctx, companyID, id)
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:              e.ID,
		SupplierID:      e.SupplierID,
		Category:        e.Category,
		Description:     e.Description,
		Date:            dto.FormatDate(e.Date),
		DiscountPercent: e.DiscountPercent,
		Items:           toItemResponses(e.Items),
		Total:           e.Total(),
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		DeletedAt:       e.DeletedAt,
	}
}
