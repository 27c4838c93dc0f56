package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// StockExitHandler salida de stock: alta, consulta, borrado lógico y restauración.
type StockExitHandler struct {
	uc  *usecase.StockExitUseCase
	log *logger.Logger
}

// NewStockExitHandler construye el handler.
func NewStockExitHandler(uc *usecase.StockExitUseCase, log *logger.Logger) *StockExitHandler {
	return &StockExitHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar salida de stock
// @Description  Descuenta stock; no entra en las métricas financieras.
// @Tags         stock-exits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockExitRequest  true  "Documento"
// @Success      201   {object}  dto.StockExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock-exits [post]
func (h *StockExitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockExitRequest
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
// @Summary      Listar salidas de stock
// @Tags         stock-exits
// @Security     Bearer
// @Produce      json
// @Param        start_date       query  string  false  "YYYY-MM-DD"
// @Param        end_date         query  string  false  "YYYY-MM-DD"
// @Param        include_deleted  query  bool    false  "Incluir eliminados"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockExitListResponse
// @Router       /api/stock-exits [get]
func (h *StockExitHandler) List(c *fiber.Ctx) error {
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
// @Summary      Obtener salida de stock
// @Tags         stock-exits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.StockExitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-exits/{id} [get]
func (h *StockExitHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar salida de stock (borrado lógico)
// @Tags         stock-exits
// @Security     Bearer
// @Param        id   path  string  true  "ID del documento"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-exits/{id} [delete]
func (h *StockExitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restaurar salida de stock eliminada
// @Tags         stock-exits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.StockExitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-exits/{id}/restore [post]
func (h *StockExitHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
