package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// StockEntryHandler entrada de stock: alta, consulta, borrado lógico y restauración.
type StockEntryHandler struct {
	uc  *usecase.StockEntryUseCase
	log *logger.Logger
}

// NewStockEntryHandler construye el handler.
func NewStockEntryHandler(uc *usecase.StockEntryUseCase, log *logger.Logger) *StockEntryHandler {
	return &StockEntryHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar entrada de stock
// @Description  Suma stock y recalcula el costo promedio ponderado de cada producto.
// @Tags         stock-entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockEntryRequest  true  "Documento"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-entries [post]
func (h *StockEntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockEntryRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar entradas de stock
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        start_date       query  string  false  "YYYY-MM-DD"
// @Param        end_date         query  string  false  "YYYY-MM-DD"
// @Param        include_deleted  query  bool    false  "Incluir eliminados"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockEntryListResponse
// @Router       /api/stock-entries [get]
func (h *StockEntryHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrada de stock
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id} [get]
func (h *StockEntryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar entrada de stock (borrado lógico)
// @Tags         stock-entries
// @Security     Bearer
// @Param        id   path  string  true  "ID del documento"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id} [delete]
func (h *StockEntryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restaurar entrada de stock eliminada
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id}/restore [post]
func (h *StockEntryHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
